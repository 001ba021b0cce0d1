package dashboard

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgs-kpis/fmd-dashboard/internal/app"
	"github.com/dgs-kpis/fmd-dashboard/internal/models"
	"github.com/dgs-kpis/fmd-dashboard/internal/services"
	"github.com/dgs-kpis/fmd-dashboard/internal/services/insights"
)

func testSummary() *insights.Summary {
	return &insights.Summary{
		Categories: []models.CategoryMetrics{
			{ProbType: "HVAC", Count: 4, MeanDays: 3, PercentOnTime: 75},
			{ProbType: "BOILER", Count: 1, MeanDays: 2, PercentOnTime: 100},
		},
		TotalOrders: 6,
		OpenOrders:  1,
		ComputedAt:  time.Now(),
	}
}

func TestNew(t *testing.T) {
	state := app.NewState()
	m := New(state)
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_Init(t *testing.T) {
	m := New(app.NewState())
	if m.Init() == nil {
		t.Error("Init returned nil")
	}
}

func TestModel_View(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	m := New(state)
	m.SetSize(80, 24)

	// View with no data
	view := m.View()
	if !strings.Contains(view, "No completed work orders") {
		t.Error("View should show the empty state")
	}

	state.SetSummary(testSummary())
	state.SetStats(services.StatsEvent{TotalOrders: 6, OpenOrders: 1, Buildings: 2, Categories: 2})

	view = m.View()
	if !strings.Contains(view, "HVAC") {
		t.Error("View should contain category name")
	}
	if !strings.Contains(view, "mean 3 days") {
		t.Error("View should contain mean completion days")
	}
}

func TestModel_View_Loading(t *testing.T) {
	state := app.NewState()
	m := New(state)
	m.SetSize(40, 10)

	if m.View() == "" {
		t.Error("Loading view should not be empty")
	}
}

func TestModel_KeyNavigation(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetSummary(testSummary())
	m := New(state)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.SelectedIndex() != 1 {
		t.Errorf("SelectedIndex = %d, want 1", m.SelectedIndex())
	}

	// Wraps around.
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.SelectedIndex() != 0 {
		t.Errorf("SelectedIndex = %d, want 0 after wrap", m.SelectedIndex())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.SelectedIndex() != 1 {
		t.Errorf("SelectedIndex = %d, want 1 after up-wrap", m.SelectedIndex())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	if m.SelectedIndex() != 0 {
		t.Errorf("SelectedIndex = %d, want 0 after g", m.SelectedIndex())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	if m.SelectedIndex() != 1 {
		t.Errorf("SelectedIndex = %d, want 1 after G", m.SelectedIndex())
	}
}

func TestModel_ClampSelection(t *testing.T) {
	state := app.NewState()
	state.SetSummary(testSummary())
	m := New(state)
	m.selectedIndex = 5

	m.Update(app.OrdersLoadedMsg{})
	if m.SelectedIndex() != 1 {
		t.Errorf("SelectedIndex = %d, want clamped to 1", m.SelectedIndex())
	}
}

func TestModel_SetSize(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(100, 50)
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
