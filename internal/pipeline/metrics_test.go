package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/dgs-kpis/fmd-dashboard/internal/models"
)

// completedOrder builds a closed work order with the given duration in days.
func completedOrder(id, category string, days int) models.WorkOrder {
	requested := time.Date(2021, time.August, 1, 0, 0, 0, 0, time.UTC)
	completed := requested.Add(time.Duration(days) * 24 * time.Hour)
	return models.WorkOrder{
		ID:            id,
		ProbType:      category,
		DateRequested: requested,
		DateCompleted: &completed,
	}
}

func TestOnTimeByCategory(t *testing.T) {
	orders := []models.WorkOrder{
		// HVAC durations 1, 2, 3, 6 days: mean 3 days, three of four on time.
		completedOrder("WO-1", "HVAC", 1),
		completedOrder("WO-2", "HVAC", 2),
		completedOrder("WO-3", "HVAC", 3),
		completedOrder("WO-4", "HVAC", 6),
		// BOILER durations 2, 2 days: mean 2 days, all on time.
		completedOrder("WO-5", "BOILER", 2),
		completedOrder("WO-6", "BOILER", 2),
	}

	metrics, err := OnTimeByCategory(orders)
	if err != nil {
		t.Fatalf("OnTimeByCategory failed: %v", err)
	}

	if len(metrics) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(metrics))
	}

	// Sorted by category key ascending.
	if metrics[0].ProbType != "BOILER" || metrics[1].ProbType != "HVAC" {
		t.Errorf("Expected categories sorted ascending, got %s then %s",
			metrics[0].ProbType, metrics[1].ProbType)
	}

	boiler := metrics[0]
	if boiler.Count != 2 || boiler.MeanDays != 2 || boiler.PercentOnTime != 100 {
		t.Errorf("Unexpected BOILER metrics: %+v", boiler)
	}

	hvac := metrics[1]
	if hvac.Count != 4 {
		t.Errorf("Expected HVAC count 4, got %d", hvac.Count)
	}
	if hvac.MeanDays != 3 {
		t.Errorf("Expected HVAC mean 3 days, got %d", hvac.MeanDays)
	}
	if hvac.PercentOnTime != 75 {
		t.Errorf("Expected HVAC 75%% on time, got %v", hvac.PercentOnTime)
	}
}

func TestOnTimeByCategoryMeanTruncation(t *testing.T) {
	// Durations 1, 2 days: mean 1.5 days truncates to 1 whole day, so only
	// the one-day order is on time.
	orders := []models.WorkOrder{
		completedOrder("WO-1", "HVAC", 1),
		completedOrder("WO-2", "HVAC", 2),
	}

	metrics, err := OnTimeByCategory(orders)
	if err != nil {
		t.Fatalf("OnTimeByCategory failed: %v", err)
	}

	if metrics[0].MeanDays != 1 {
		t.Errorf("Expected mean truncated to 1 day, got %d", metrics[0].MeanDays)
	}
	if metrics[0].PercentOnTime != 50 {
		t.Errorf("Expected 50%% on time, got %v", metrics[0].PercentOnTime)
	}
}

func TestOnTimeByCategoryRejectsOpenOrders(t *testing.T) {
	orders := []models.WorkOrder{
		completedOrder("WO-1", "HVAC", 2),
		{ID: "WO-2", ProbType: "HVAC", DateRequested: time.Now()},
	}

	_, err := OnTimeByCategory(orders)
	if err == nil {
		t.Fatal("Expected error when open orders remain")
	}

	var openErr *OpenOrdersError
	if !errors.As(err, &openErr) {
		t.Fatalf("Expected *OpenOrdersError, got %T", err)
	}
	if openErr.Open != 1 {
		t.Errorf("Expected 1 open order reported, got %d", openErr.Open)
	}
}

func TestOnTimeByCategoryEmpty(t *testing.T) {
	metrics, err := OnTimeByCategory(nil)
	if err != nil {
		t.Fatalf("Expected no error for empty input, got %v", err)
	}
	if len(metrics) != 0 {
		t.Errorf("Expected no metrics for empty input, got %v", metrics)
	}
}

func TestCompletedOnly(t *testing.T) {
	orders := []models.WorkOrder{
		completedOrder("WO-1", "HVAC", 2),
		{ID: "WO-2", ProbType: "HVAC", DateRequested: time.Now()},
		completedOrder("WO-3", "BOILER", 1),
	}

	completed := CompletedOnly(orders)
	if len(completed) != 2 {
		t.Fatalf("Expected 2 completed orders, got %d", len(completed))
	}
	for _, wo := range completed {
		if wo.IsOpen() {
			t.Errorf("Open order %s survived CompletedOnly", wo.ID)
		}
	}

	// CompletedOnly output must satisfy the metrics precondition.
	if _, err := OnTimeByCategory(completed); err != nil {
		t.Errorf("Expected filtered orders to pass precondition, got %v", err)
	}
}

func TestRequestVolume(t *testing.T) {
	orders := []models.WorkOrder{
		{ID: "WO-1", FiscalYearRequested: 2021},
		{ID: "WO-2", FiscalYearRequested: 2022},
		{ID: "WO-3", FiscalYearRequested: 2021},
		{ID: "WO-4", FiscalYearRequested: 2020},
	}

	volumes := RequestVolume(orders)
	if len(volumes) != 3 {
		t.Fatalf("Expected 3 fiscal years, got %d", len(volumes))
	}

	want := []models.FiscalYearVolume{
		{FiscalYear: 2020, Count: 1},
		{FiscalYear: 2021, Count: 2},
		{FiscalYear: 2022, Count: 1},
	}
	for i, w := range want {
		if volumes[i] != w {
			t.Errorf("volumes[%d] = %+v, want %+v", i, volumes[i], w)
		}
	}
}
