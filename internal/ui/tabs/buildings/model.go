// Package buildings provides the geocoded work order tab for the FMD dashboard.
package buildings

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dgs-kpis/fmd-dashboard/internal/app"
	"github.com/dgs-kpis/fmd-dashboard/internal/models"
	"github.com/dgs-kpis/fmd-dashboard/internal/ui/styles"
)

// keyMap defines the key bindings specific to the buildings tab.
type keyMap struct {
	Enter key.Binding
	Up    key.Binding
	Down  key.Binding
}

// defaultKeyMap returns the default key bindings for the buildings tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select order"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the buildings tab state.
type Model struct {
	state  *app.State
	table  table.Model
	width  int
	height int
	keys   keyMap
}

// New creates a new buildings model.
func New(state *app.State) *Model {
	t := table.New(
		table.WithColumns(defaultColumns(0)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgAccent).
		Bold(true)
	t.SetStyles(s)

	return &Model{
		state: state,
		table: t,
		keys:  defaultKeyMap(),
	}
}

func defaultColumns(width int) []table.Column {
	buildingWidth := width - 62
	if buildingWidth < 18 {
		buildingWidth = 18
	}
	if buildingWidth > 36 {
		buildingWidth = 36
	}

	return []table.Column{
		{Title: "Order", Width: 10},
		{Title: "Building", Width: buildingWidth},
		{Title: "Type", Width: 12},
		{Title: "Requested", Width: 11},
		{Title: "Status", Width: 9},
		{Title: "Lat", Width: 9},
		{Title: "Lon", Width: 10},
	}
}

// Init initializes the buildings tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the buildings tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Enter):
			if row := m.table.SelectedRow(); len(row) > 0 {
				idx := m.table.Cursor()
				orderID := row[0]
				m.state.SetSelectedIndex(idx)
				return m, func() tea.Msg {
					return app.SelectedOrderChangedMsg{Index: idx, OrderID: orderID}
				}
			}

		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			cmds = append(cmds, cmd)
		}

	case app.OrdersLoadedMsg:
		m.updateTableData()
	}

	return m, tea.Batch(cmds...)
}

// updateTableData rebuilds the table from the geo-joined order list.
func (m *Model) updateTableData() {
	located := m.state.GetLocated()
	rows := make([]table.Row, 0, len(located))

	for _, lo := range located {
		rows = append(rows, locatedRow(lo))
	}

	m.table.SetRows(rows)
}

func locatedRow(lo models.LocatedOrder) table.Row {
	status := "done"
	if lo.IsOpen() {
		status = "open"
	}

	name := lo.BuildingName
	if name == "" {
		name = lo.BuildingID
	}

	return table.Row{
		lo.ID,
		name,
		lo.ProbType,
		lo.DateRequested.Format("2006-01-02"),
		status,
		fmt.Sprintf("%.4f", lo.Latitude),
		fmt.Sprintf("%.4f", lo.Longitude),
	}
}

// SetSize sets the available size for the buildings tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	tableHeight := height - 8
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.table.SetHeight(tableHeight)
	m.table.SetColumns(defaultColumns(width))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Up,
		m.keys.Down,
		m.keys.Enter,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Enter},
	}
}
