package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/models"
)

func (m *Model) loadContacts() {
	contacts, err := db.FindContacts(m.coach.DB, m.search.Value(), nil, 200)
	if err != nil {
		m.err = err
		return
	}
	m.contacts = contacts
	if m.selectedRow >= len(contacts) {
		m.selectedRow = max(len(contacts)-1, 0)
	}
}

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("CALLCOACH · WHO ARE YOU CALLING?"))
	s.WriteString("\n\n")

	if m.input == inputSearch || m.search.Value() != "" {
		s.WriteString(m.search.View())
		s.WriteString("\n\n")
	}

	s.WriteString(m.renderContactsTable())
	s.WriteString("\n")
	s.WriteString(m.renderStatus())
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderContactsTable() string {
	if len(m.contacts) == 0 {
		return "No contacts yet. Press s to practise without one, or add contacts with 'callcoach crm add-contact'."
	}

	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Title", Width: 22},
		{Title: "Company", Width: 22},
		{Title: "Last Call", Width: 10},
	}

	companyNames := map[uuid.UUID]string{}
	rows := make([]table.Row, 0, len(m.contacts))
	for _, contact := range m.contacts {
		companyName := contact.Organization
		if contact.CompanyID != nil {
			name, ok := companyNames[*contact.CompanyID]
			if !ok {
				if company, _ := db.GetCompany(m.coach.DB, *contact.CompanyID); company != nil {
					name = company.Name
				}
				companyNames[*contact.CompanyID] = name
			}
			if name != "" {
				companyName = name
			}
		}

		lastCall := "never"
		if contact.LastContactedAt != nil {
			lastCall = contact.LastContactedAt.Format("2006-01-02")
		}

		rows = append(rows, table.Row{contact.DisplayName(), contact.Title, companyName, lastCall})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Enter: Call",
		"v: Details",
		"/: Search",
		"s: Call without contact",
		"x: Delete",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	m.err = nil

	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.contacts)-1 {
			m.selectedRow++
		}
	case "enter":
		if c := m.selectedContact(); c != nil {
			m.startCall(c)
		}
	case "s":
		m.startCall(nil)
	case "v":
		if m.selectedContact() != nil {
			m.viewMode = ViewDetail
		}
	case "x":
		if m.selectedContact() != nil {
			m.viewMode = ViewConfirmDelete
		}
	case "/":
		cmd := m.focus(inputSearch)
		return m, cmd
	case "esc":
		m.search.SetValue("")
		m.loadContacts()
	}

	return m, nil
}

func (m Model) selectedContact() *models.Contact {
	if m.selectedRow < 0 || m.selectedRow >= len(m.contacts) {
		return nil
	}
	c := m.contacts[m.selectedRow]
	return &c
}
