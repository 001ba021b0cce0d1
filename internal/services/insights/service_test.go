package insights

import (
	"testing"
	"time"

	"github.com/dgs-kpis/fmd-dashboard/internal/models"
)

func order(id, probType string, requested time.Time, days int) models.WorkOrder {
	wo := models.WorkOrder{
		ID:                  id,
		ProbType:            probType,
		BuildingID:          "B001",
		DateRequested:       requested,
		FiscalYearRequested: 2024,
	}
	if days >= 0 {
		completed := requested.Add(time.Duration(days) * 24 * time.Hour)
		wo.DateCompleted = &completed
		wo.FiscalYearCompleted = 2024
	}
	return wo
}

func testOrders() []models.WorkOrder {
	base := time.Date(2023, time.August, 1, 8, 0, 0, 0, time.UTC)
	return []models.WorkOrder{
		order("WO-1", "HVAC", base, 1),
		order("WO-2", "HVAC", base, 2),
		order("WO-3", "HVAC", base, 3),
		order("WO-4", "HVAC", base, 6),
		order("WO-5", "BOILER", base, 2),
		order("WO-6", "BOILER", base, -1), // still open
	}
}

func TestRecompute(t *testing.T) {
	s := New()

	if s.Summary() != nil {
		t.Fatal("Expected nil summary before first recompute")
	}

	summary, err := s.Recompute(testOrders())
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}

	if summary.TotalOrders != 6 || summary.OpenOrders != 1 {
		t.Errorf("Unexpected counts: total=%d open=%d", summary.TotalOrders, summary.OpenOrders)
	}
	if len(summary.Categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(summary.Categories))
	}

	// Sorted by problem type.
	boiler, hvac := summary.Categories[0], summary.Categories[1]
	if boiler.ProbType != "BOILER" || hvac.ProbType != "HVAC" {
		t.Fatalf("Unexpected category order: %s, %s", boiler.ProbType, hvac.ProbType)
	}

	// HVAC durations 1,2,3,6 days: mean 3, three of four on time.
	if hvac.MeanDays != 3 {
		t.Errorf("Expected HVAC mean of 3 days, got %d", hvac.MeanDays)
	}
	if hvac.PercentOnTime != 75 {
		t.Errorf("Expected HVAC 75%% on time, got %v", hvac.PercentOnTime)
	}

	// Single completed BOILER order is trivially on time.
	if boiler.Count != 1 || boiler.PercentOnTime != 100 {
		t.Errorf("Unexpected BOILER metrics: %+v", boiler)
	}

	if len(summary.Volumes) != 1 || summary.Volumes[0].Count != 6 {
		t.Errorf("Unexpected volumes: %+v", summary.Volumes)
	}

	if s.Summary() != summary {
		t.Error("Expected summary to be cached")
	}
}

func TestLaggingCategories(t *testing.T) {
	s := New()
	if got := s.LaggingCategories(50); got != nil {
		t.Fatalf("Expected nil before recompute, got %+v", got)
	}

	if _, err := s.Recompute(testOrders()); err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}

	if got := s.LaggingCategories(80); len(got) != 1 || got[0].ProbType != "HVAC" {
		t.Errorf("Expected HVAC below 80%%, got %+v", got)
	}
	if got := s.LaggingCategories(50); got != nil {
		t.Errorf("Expected no categories below 50%%, got %+v", got)
	}
}

func TestCategory(t *testing.T) {
	s := New()
	if _, ok := s.Category("HVAC"); ok {
		t.Fatal("Expected miss before recompute")
	}

	if _, err := s.Recompute(testOrders()); err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}

	cat, ok := s.Category("HVAC")
	if !ok || cat.Count != 4 {
		t.Errorf("Unexpected HVAC lookup: %+v ok=%v", cat, ok)
	}
	if _, ok := s.Category("ELEVATOR"); ok {
		t.Error("Expected miss for unknown category")
	}
}

func TestRecomputeEmpty(t *testing.T) {
	s := New()
	summary, err := s.Recompute(nil)
	if err != nil {
		t.Fatalf("Recompute failed on empty input: %v", err)
	}
	if summary.TotalOrders != 0 || len(summary.Categories) != 0 {
		t.Errorf("Unexpected summary for empty input: %+v", summary)
	}
}
