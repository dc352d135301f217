// ABOUTME: Live call view for the TUI
// ABOUTME: Steps through flow sections, re-renders on notes, and answers objections as they come up
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/harperreed/callcoach/callflow"
	"github.com/harperreed/callcoach/coach"
	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/models"
)

var sectionTitles = map[string]string{
	callflow.SectionOpening:               "Opening",
	callflow.SectionTransitionToDiscovery: "→ Discovery",
	callflow.SectionDiscovery:             "Discovery",
	callflow.SectionTransitionToPitch:     "→ Pitch",
	callflow.SectionObjections:            "Objections",
	callflow.SectionClosing:               "Closing",
	callflow.SectionCompetitorObjection:   "Competitors",
}

var (
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)

	scriptStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("170")).
			PaddingLeft(1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

func (m Model) handleFlowsLoaded(msg flowsLoadedMsg) Model {
	if msg.err != nil {
		m.err = fmt.Errorf("failed to load call flows: %w", msg.err)
		return m
	}
	m.flows = msg.lib.Flows

	if m.opts.FlowID != "" || m.opts.Product != "" || m.opts.Approach != "" {
		if flow, err := m.coach.SelectFlow(context.Background(), m.opts.FlowID, m.opts.Product, m.opts.Approach); err == nil {
			m.selectFlow(flow.ID)
		} else {
			m.err = err
		}
	} else if flow, err := m.coach.SelectFlow(context.Background(), "", "", ""); err == nil {
		m.selectFlow(flow.ID)
	}

	if m.opts.ContactID != nil && m.contact == nil {
		contact, err := db.GetContact(m.coach.DB, *m.opts.ContactID)
		switch {
		case err != nil:
			m.err = err
		case contact == nil:
			m.err = fmt.Errorf("contact not found: %s", m.opts.ContactID)
		default:
			m.startCall(contact)
		}
	} else if m.viewMode == ViewCall {
		m.rerender()
	}
	return m
}

func (m *Model) selectFlow(id string) {
	for i, f := range m.flows {
		if f.ID == id {
			m.flowIndex = i
			return
		}
	}
}

func (m Model) currentFlow() *callflow.CallFlow {
	if m.flowIndex < 0 || m.flowIndex >= len(m.flows) {
		return nil
	}
	return &m.flows[m.flowIndex]
}

// startCall opens the call view. contact may be nil for a practice run.
func (m *Model) startCall(contact *models.Contact) {
	m.contact = contact
	m.viewMode = ViewCall
	m.section = 0
	m.item = 0
	m.answers = nil
	m.status = ""
	m.err = nil
	m.notes.SetValue("")
	m.objection.SetValue("")
	m.callStarted = time.Now()
	m.rerender()
}

// rerender rebuilds the template context and the current section.
func (m *Model) rerender() {
	flow := m.currentFlow()
	if flow == nil {
		m.rendered = nil
		return
	}

	tc, err := m.coach.TemplateContext(m.contactID(), flow.Product, m.notes.Value())
	if err != nil {
		m.err = err
		return
	}
	m.tc = tc

	competitor := ""
	section := coach.Sections[m.section]
	if section == callflow.SectionCompetitorObjection && !m.allCompetitors {
		competitor = m.systemCompetitor(flow)
	}

	rendered, err := coach.Render(flow, section, competitor, tc)
	if err != nil {
		m.err = err
		return
	}
	m.rendered = rendered
	if m.item >= len(rendered.Items) {
		m.item = max(len(rendered.Items)-1, 0)
	}
}

func (m Model) contactID() *uuid.UUID {
	if m.contact == nil {
		return nil
	}
	id := m.contact.ID
	return &id
}

// systemCompetitor names the competitor matching the prospect's DMS or EHR.
func (m Model) systemCompetitor(flow *callflow.CallFlow) string {
	doc := flow.Sections.CompetitorObjections
	if doc == nil {
		return ""
	}
	for _, system := range []string{m.tc.Script.DMS, m.tc.Script.EHR} {
		if matches := callflow.MatchCompetitors(doc.Competitors, system); len(matches) > 0 {
			return matches[0].Name
		}
	}
	return ""
}

func (m *Model) findObjection() {
	flow := m.currentFlow()
	text := strings.TrimSpace(m.objection.Value())
	if flow == nil || text == "" {
		m.answers = nil
		return
	}
	m.answers = m.coach.FindObjectionResponse(context.Background(), flow, text, m.tc)
	if len(m.answers) == 0 {
		m.status = "No matching objection. Try the Objections tab."
	}
}

func (m Model) handleCallKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	m.err = nil

	switch msg.String() {
	case "esc":
		if len(m.answers) > 0 {
			m.answers = nil
			return m, nil
		}
		m.viewMode = ViewList
		m.loadContacts()
	case "right", "l", "tab":
		m.section = (m.section + 1) % len(coach.Sections)
		m.item = 0
		m.rerender()
	case "left", "h", "shift+tab":
		m.section = (m.section + len(coach.Sections) - 1) % len(coach.Sections)
		m.item = 0
		m.rerender()
	case "1", "2", "3", "4", "5", "6", "7":
		m.section = int(msg.String()[0]-'1') % len(coach.Sections)
		m.item = 0
		m.rerender()
	case "down", "j":
		if m.rendered != nil && m.item < len(m.rendered.Items)-1 {
			m.item++
		}
	case "up", "k":
		if m.item > 0 {
			m.item--
		}
	case "f":
		if len(m.flows) > 0 {
			m.flowIndex = (m.flowIndex + 1) % len(m.flows)
			m.item = 0
			m.rerender()
		}
	case "a":
		m.allCompetitors = !m.allCompetitors
		m.rerender()
	case "enter":
		if item := m.selectedItem(); item != nil {
			m.coach.RecordUsage(item.Origin)
			m.status = "✓ Used: " + item.Label
		}
	case "n":
		cmd := m.focus(inputNotes)
		return m, cmd
	case "o":
		m.objection.SetValue("")
		cmd := m.focus(inputObjection)
		return m, cmd
	case "c":
		if m.contact == nil {
			m.status = "Practice call: pick a contact from the list to log outcomes"
			return m, nil
		}
		m.outcome = 0
		m.viewMode = ViewLogCall
	}

	return m, nil
}

func (m Model) selectedItem() *coach.Item {
	if m.rendered == nil || m.item < 0 || m.item >= len(m.rendered.Items) {
		return nil
	}
	return &m.rendered.Items[m.item]
}

func (m Model) renderCallView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(m.callTitle()))
	s.WriteString("\n")

	flow := m.currentFlow()
	if flow == nil {
		if m.err == nil {
			s.WriteString("Loading call flows...\n")
		}
		s.WriteString(m.renderStatus())
		return s.String()
	}

	s.WriteString(dimStyle.Render(fmt.Sprintf("Flow: %s (%s / %s)", flow.Name, flow.Product, flow.Approach)))
	s.WriteString("\n")
	if ctx := m.contextLine(); ctx != "" {
		s.WriteString(dimStyle.Render(ctx))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	s.WriteString(m.renderSectionTabs())
	s.WriteString("\n\n")

	if len(m.answers) > 0 {
		s.WriteString(m.renderAnswers())
	} else {
		s.WriteString(m.renderItems())
	}
	s.WriteString("\n")

	switch m.input {
	case inputNotes:
		s.WriteString("Notes: " + m.notes.View() + "\n")
	case inputObjection:
		s.WriteString("They said: " + m.objection.View() + "\n")
	default:
		if v := m.notes.Value(); v != "" {
			s.WriteString(dimStyle.Render("Notes: "+v) + "\n")
		}
	}

	s.WriteString(m.renderStatus())
	s.WriteString(m.renderCallHelp())
	return s.String()
}

func (m Model) callTitle() string {
	if m.contact == nil {
		return "PRACTICE CALL"
	}
	title := "CALL · " + m.contact.DisplayName()
	if org := m.tc.Contact.Organization; org != "" {
		title += " @ " + org
	}
	return title
}

func (m Model) contextLine() string {
	var parts []string
	if v := m.tc.Contact.Title; v != "" {
		parts = append(parts, v)
	}
	if v := m.tc.Script.EHR; v != "" {
		parts = append(parts, "EHR "+v)
	}
	if v := m.tc.Script.DMS; v != "" {
		parts = append(parts, "DMS "+v)
	}
	if v := m.tc.Script.Volume; v != "" {
		parts = append(parts, v)
	}
	return strings.Join(parts, " · ")
}

func (m Model) renderSectionTabs() string {
	tabs := make([]string, 0, len(coach.Sections))
	for i, section := range coach.Sections {
		label := fmt.Sprintf("%d %s", i+1, sectionTitles[section])
		if i == m.section {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderItems() string {
	if m.rendered == nil || len(m.rendered.Items) == 0 {
		return dimStyle.Render("Nothing in this section for this flow.") + "\n"
	}

	var s strings.Builder
	for i, item := range m.rendered.Items {
		if i == m.item {
			s.WriteString(cursorStyle.Render("▸ " + item.Label))
		} else {
			s.WriteString("  " + item.Label)
		}
		s.WriteString("\n")
	}

	item := m.rendered.Items[m.item]
	width := max(m.width-4, 20)
	s.WriteString("\n")
	s.WriteString(scriptStyle.Width(width).Render(item.Text))
	s.WriteString("\n")
	if item.Detail != "" {
		s.WriteString(dimStyle.Width(width).Render(item.Detail))
		s.WriteString("\n")
	}
	for _, alt := range item.Alternatives {
		s.WriteString(dimStyle.Width(width).Render("alt: " + alt))
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderAnswers() string {
	var s strings.Builder
	width := max(m.width-4, 20)
	s.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("RESPONSES TO %q", m.objection.Value())))
	s.WriteString("\n\n")
	for _, a := range m.answers {
		label := a.Objection
		if a.Competitor != "" {
			label = a.Competitor + ": " + label
		}
		s.WriteString(cursorStyle.Render(label))
		s.WriteString("\n")
		s.WriteString(scriptStyle.Width(width).Render(a.Response))
		s.WriteString("\n")
		for _, alt := range a.Alternatives {
			s.WriteString(dimStyle.Width(width).Render("alt: " + alt))
			s.WriteString("\n")
		}
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderCallHelp() string {
	help := []string{
		"←/→: Section",
		"↑/↓: Item",
		"Enter: Mark used",
		"n: Notes",
		"o: Objection",
		"f: Next flow",
		"c: Log call",
		"Esc: Back",
	}
	if coach.Sections[m.section] == callflow.SectionCompetitorObjection {
		help = append(help, "a: All competitors")
	}
	return helpStyle.Render(strings.Join(help, " • "))
}
