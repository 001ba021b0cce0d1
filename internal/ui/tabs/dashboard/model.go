// Package dashboard provides the on-time performance tab for the FMD dashboard.
package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgs-kpis/fmd-dashboard/internal/app"
	"github.com/dgs-kpis/fmd-dashboard/internal/ui/components"
)

// keyMap defines the key bindings specific to the dashboard tab.
type keyMap struct {
	NextCategory  key.Binding
	PrevCategory  key.Binding
	FirstCategory key.Binding
	LastCategory  key.Binding
	Refresh       key.Binding
}

// defaultKeyMap returns the default key bindings for the dashboard tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextCategory: key.NewBinding(
			key.WithKeys("n", "j", "down"),
			key.WithHelp("j/n", "next category"),
		),
		PrevCategory: key.NewBinding(
			key.WithKeys("p", "k", "up"),
			key.WithHelp("k/p", "prev category"),
		),
		FirstCategory: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first category"),
		),
		LastCategory: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last category"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// Model represents the dashboard tab state.
type Model struct {
	state         *app.State
	spinner       components.LoadingSpinner
	keys          keyMap
	viewport      viewport.Model
	width         int
	height        int
	selectedIndex int
}

// New creates a new dashboard model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Loading work orders..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.OrdersLoadedMsg:
		m.clampSelection()

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) categoryCount() int {
	summary := m.state.GetSummary()
	if summary == nil {
		return 0
	}
	return len(summary.Categories)
}

func (m *Model) clampSelection() {
	count := m.categoryCount()
	if count == 0 {
		m.selectedIndex = 0
	} else if m.selectedIndex >= count {
		m.selectedIndex = count - 1
	}
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	count := m.categoryCount()

	switch {
	case key.Matches(msg, m.keys.NextCategory):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex + 1) % count
		}
	case key.Matches(msg, m.keys.PrevCategory):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex - 1 + count) % count
		}
	case key.Matches(msg, m.keys.FirstCategory):
		if count > 0 {
			m.selectedIndex = 0
		}
	case key.Matches(msg, m.keys.LastCategory):
		if count > 0 {
			m.selectedIndex = count - 1
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// SetSize sets the available size for the dashboard.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// SelectedIndex returns the currently highlighted category row.
func (m *Model) SelectedIndex() int {
	return m.selectedIndex
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.NextCategory,
		m.keys.PrevCategory,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextCategory, m.keys.PrevCategory},
		{m.keys.FirstCategory, m.keys.LastCategory},
		{m.keys.Refresh},
	}
}
