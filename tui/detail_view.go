package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/callcoach/db"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("CONTACT"))
	s.WriteString("\n\n")
	s.WriteString(m.renderContactDetail())
	s.WriteString("\n\n")
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderContactDetail() string {
	selected := m.selectedContact()
	if selected == nil {
		return "No contact selected"
	}

	contact, err := db.GetContact(m.coach.DB, selected.ID)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if contact == nil {
		return "Contact no longer exists"
	}

	var s strings.Builder

	s.WriteString(m.renderField("Name", contact.DisplayName()))
	s.WriteString(m.renderField("Title", contact.Title))
	s.WriteString(m.renderField("Email", contact.Email))
	s.WriteString(m.renderField("Phone", contact.Phone))

	if contact.CompanyID != nil {
		company, _ := db.GetCompany(m.coach.DB, *contact.CompanyID)
		if company != nil {
			s.WriteString(m.renderField("Company", company.Name))
			s.WriteString(m.renderField("EHR", company.EHR))
			s.WriteString(m.renderField("DMS", company.DMS))
			s.WriteString(m.renderField("Volume", company.Volume))
		}
	} else {
		s.WriteString(m.renderField("Organization", contact.Organization))
	}

	if contact.LastContactedAt != nil {
		s.WriteString(m.renderField("Last Called", contact.LastContactedAt.Format("2006-01-02")))
	}
	s.WriteString(m.renderField("Notes", contact.Notes))

	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Bold(true).Render("NOTES"))
	s.WriteString("\n")
	notes, _ := db.ListNotes(m.coach.DB, contact.ID)
	for _, note := range notes {
		s.WriteString(fmt.Sprintf("  • [%s] %s\n", note.CreatedAt.Format("2006-01-02"), note.Content))
	}

	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Bold(true).Render("RECENT CALLS"))
	s.WriteString("\n")
	calls, _ := db.ListCallLogs(m.coach.DB, &contact.ID, 5)
	for _, call := range calls {
		line := fmt.Sprintf("  • %s %s", call.CalledAt.Format("2006-01-02"), call.Outcome)
		if call.Product != "" {
			line += " (" + call.Product + ")"
		}
		if call.Notes != "" {
			line += ": " + call.Notes
		}
		s.WriteString(line + "\n")
	}

	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fmt.Sprintf("%s %s\n",
		fieldLabelStyle.Render(label+":"),
		fieldValueStyle.Render(value))
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"Esc: Back",
		"c: Call",
		"x: Delete",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
	case "c", "enter":
		if c := m.selectedContact(); c != nil {
			m.startCall(c)
		}
	case "x":
		m.viewMode = ViewConfirmDelete
	}

	return m, nil
}
