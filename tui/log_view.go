// ABOUTME: Call outcome view for the TUI
// ABOUTME: Records the call with its flow, notes, and duration
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/callcoach/models"
)

var outcomes = []struct {
	value string
	label string
}{
	{models.OutcomeConnected, "Connected"},
	{models.OutcomeMeetingSet, "Meeting set"},
	{models.OutcomeFollowUp, "Follow up"},
	{models.OutcomeVoicemail, "Left voicemail"},
	{models.OutcomeNoAnswer, "No answer"},
	{models.OutcomeNotInterest, "Not interested"},
}

func (m Model) renderLogCallView() string {
	var s strings.Builder

	name := ""
	if m.contact != nil {
		name = m.contact.DisplayName()
	}
	s.WriteString(titleStyle.Render("LOG CALL · " + name))
	s.WriteString("\n\n")

	for i, o := range outcomes {
		if i == m.outcome {
			s.WriteString(cursorStyle.Render("▸ " + o.label))
		} else {
			s.WriteString("  " + o.label)
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if flow := m.currentFlow(); flow != nil {
		s.WriteString(m.renderField("Flow", flow.Name))
	}
	s.WriteString(m.renderField("Duration", m.callDuration().Round(time.Second).String()))
	s.WriteString(m.renderField("Notes", m.notes.Value()))

	s.WriteString(m.renderStatus())
	help := []string{
		"↑/↓: Outcome",
		"Enter: Save",
		"Esc: Back to call",
	}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return s.String()
}

func (m Model) callDuration() time.Duration {
	if m.callStarted.IsZero() {
		return 0
	}
	return time.Since(m.callStarted)
}

func (m Model) handleLogCallKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewCall
	case "up", "k":
		if m.outcome > 0 {
			m.outcome--
		}
	case "down", "j":
		if m.outcome < len(outcomes)-1 {
			m.outcome++
		}
	case "enter":
		if err := m.saveCall(); err != nil {
			m.err = err
			return m, nil
		}
		m.viewMode = ViewList
		m.loadContacts()
	}
	return m, nil
}

func (m *Model) saveCall() error {
	if m.contact == nil {
		return fmt.Errorf("no contact to log against")
	}
	call := &models.CallLog{
		ContactID:       m.contact.ID,
		Outcome:         outcomes[m.outcome].value,
		Notes:           strings.TrimSpace(m.notes.Value()),
		DurationSeconds: int(m.callDuration().Seconds()),
	}
	if flow := m.currentFlow(); flow != nil {
		call.Product = flow.Product
		call.Approach = flow.Approach
	}
	if err := m.coach.LogCall(call); err != nil {
		return err
	}
	m.status = fmt.Sprintf("✓ Logged %s for %s", outcomes[m.outcome].label, m.contact.DisplayName())
	m.contact = nil
	return nil
}
