// ABOUTME: Terminal call assistant using the bubbletea framework
// ABOUTME: Picks a contact, walks the call flow section by section, and logs the outcome
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/harperreed/callcoach/callflow"
	"github.com/harperreed/callcoach/coach"
	"github.com/harperreed/callcoach/content"
	"github.com/harperreed/callcoach/models"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewCall
	ViewLogCall
	ViewConfirmDelete
)

// inputMode says which text input, if any, has the keyboard.
type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputNotes
	inputObjection
)

// Options preselect what the assistant opens on.
type Options struct {
	ContactID *uuid.UUID
	FlowID    string
	Product   string
	Approach  string
}

// Model is the main bubbletea model
type Model struct {
	coach    *coach.Coach
	opts     Options
	viewMode ViewMode
	input    inputMode

	// List view state
	contacts    []models.Contact
	selectedRow int
	search      textinput.Model

	// Call view state
	contact        *models.Contact
	callStarted    time.Time
	flows          []callflow.CallFlow
	flowIndex      int
	section        int
	item           int
	allCompetitors bool
	tc             callflow.TemplateContext
	rendered       *coach.Rendered
	notes          textinput.Model
	objection      textinput.Model
	answers        []coach.ObjectionAnswer

	// Log view state
	outcome int

	status string
	width  int
	height int
	err    error
}

// flowsLoadedMsg carries the merged library into the model.
type flowsLoadedMsg struct {
	lib *content.Library
	err error
}

// NewModel creates a new TUI model
func NewModel(c *coach.Coach, opts Options) Model {
	search := textinput.New()
	search.Placeholder = "search contacts"
	search.CharLimit = 100

	notes := textinput.New()
	notes.Placeholder = "dms: OnBase, 3,000 pages a day"
	notes.CharLimit = 500

	objection := textinput.New()
	objection.Placeholder = "what did they say?"
	objection.CharLimit = 300

	m := Model{
		coach:     c,
		opts:      opts,
		viewMode:  ViewList,
		search:    search,
		notes:     notes,
		objection: objection,
		width:     80,
		height:    24,
	}
	m.loadContacts()
	return m
}

// Run starts the assistant full screen.
func Run(c *coach.Coach, opts Options) error {
	p := tea.NewProgram(NewModel(c, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.loadFlows
}

func (m Model) loadFlows() tea.Msg {
	lib, err := m.coach.Flows(context.Background())
	return flowsLoadedMsg{lib: lib, err: err}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case flowsLoadedMsg:
		return m.handleFlowsLoaded(msg), nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewCall:
		return m.renderCallView()
	case ViewLogCall:
		return m.renderLogCallView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.input != inputNone {
		return m.handleInputKeys(msg)
	}
	if msg.String() == "q" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewCall:
		return m.handleCallKeys(msg)
	case ViewLogCall:
		return m.handleLogCallKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// handleInputKeys routes typing to the focused input. Enter commits and
// Esc abandons.
func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := m.focusedInput()
	switch msg.String() {
	case "esc":
		field.Blur()
		if m.input == inputObjection {
			m.answers = nil
		}
		m.input = inputNone
		return m, nil
	case "enter":
		field.Blur()
		mode := m.input
		m.input = inputNone
		switch mode {
		case inputSearch:
			m.selectedRow = 0
			m.loadContacts()
		case inputNotes:
			m.rerender()
		case inputObjection:
			m.findObjection()
		}
		return m, nil
	}

	var cmd tea.Cmd
	*field, cmd = field.Update(msg)
	return m, cmd
}

func (m *Model) focusedInput() *textinput.Model {
	switch m.input {
	case inputSearch:
		return &m.search
	case inputObjection:
		return &m.objection
	default:
		return &m.notes
	}
}

func (m *Model) focus(mode inputMode) tea.Cmd {
	m.input = mode
	return m.focusedInput().Focus()
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

func (m Model) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.status != "" {
		return statusStyle.Render(m.status) + "\n"
	}
	return ""
}
