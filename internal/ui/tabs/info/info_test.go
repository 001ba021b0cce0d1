package info

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgs-kpis/fmd-dashboard/internal/app"
	"github.com/dgs-kpis/fmd-dashboard/internal/config"
	"github.com/dgs-kpis/fmd-dashboard/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Dataset:              "dgs-kpis/fmd-maintenance",
		Table:                "archibus_maintenance_data",
		DatabasePath:         "/tmp/workorders.db",
		GeocodePath:          "/tmp/buildings.xlsx",
		FiscalYearStart:      time.July,
		RefreshInterval:      15 * time.Minute,
		OnTimeAlertThreshold: 50,
	}
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
}

func TestModel_View(t *testing.T) {
	state := app.NewState()
	state.SetOrders([]models.WorkOrder{{ID: "WO-1"}, {ID: "WO-2"}})

	m := New(state, testConfig())
	m.SetSize(90, 40)

	view := m.View()
	if !strings.Contains(view, "dgs-kpis/fmd-maintenance") {
		t.Error("View should contain dataset slug")
	}
	if !strings.Contains(view, "July") {
		t.Error("View should contain fiscal year start month")
	}
	if !strings.Contains(view, "2") {
		t.Error("View should contain cached order count")
	}
}

func TestModel_View_NoConfig(t *testing.T) {
	m := New(app.NewState(), nil)
	m.SetSize(90, 40)

	view := m.View()
	if !strings.Contains(view, "Configuration not loaded") {
		t.Error("View should handle nil config")
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState(), testConfig())
	m.SetSize(90, 40)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if updated == nil {
		t.Error("Update returned nil model")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
