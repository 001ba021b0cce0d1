// Package pipeline cleans raw work-order tables and derives metrics from
// them. Every operation is a pure function over in-memory data; failures
// are typed errors, never swallowed.
package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/dgs-kpis/fmd-dashboard/internal/fiscal"
	"github.com/dgs-kpis/fmd-dashboard/internal/models"
)

// TestSentinel marks rows entered for system testing; cleaning drops them.
const TestSentinel = "TEST(DO NOT USE)"

// TargetColumns is the fixed column set retained from the raw export.
var TargetColumns = []string{
	"wo_id",
	"date_completed",
	"prob_type",
	"bl_id",
	"completed_by",
	"date_requested",
	"time_completed",
	"time_start",
	"time_end",
}

// Timestamp layouts seen in catalog exports, most common first.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
	"1/2/2006 15:04",
}

// ShapeError reports a raw table missing required columns.
type ShapeError struct {
	Missing []string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("pipeline: table is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// CoerceError reports a cell that could not be converted to its target
// type. Cleaning is fail-fast: the first coercion failure aborts the whole
// operation.
type CoerceError struct {
	Row    int
	Column string
	Value  string
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("pipeline: cannot coerce row %d column %q value %q to timestamp", e.Row, e.Column, e.Value)
}

// Clean restricts a raw table to the target columns, drops test-sentinel
// rows, coerces the date columns, derives duration and fiscal years, and
// returns the orders sorted ascending by requested date.
func Clean(df dataframe.DataFrame, fyStart time.Month) ([]models.WorkOrder, error) {
	if err := fiscal.ValidStart(fyStart); err != nil {
		return nil, err
	}
	if err := checkShape(df); err != nil {
		return nil, err
	}

	sub := df.Select(TargetColumns)
	if sub.Err != nil {
		return nil, fmt.Errorf("pipeline: column selection failed: %w", sub.Err)
	}

	sub = sub.Filter(dataframe.F{Colname: "prob_type", Comparator: series.Neq, Comparando: TestSentinel})
	if sub.Err != nil {
		return nil, fmt.Errorf("pipeline: sentinel filter failed: %w", sub.Err)
	}

	orders, err := toWorkOrders(sub, fyStart)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].DateRequested.Before(orders[j].DateRequested)
	})
	return orders, nil
}

func checkShape(df dataframe.DataFrame) error {
	have := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		have[name] = true
	}

	var missing []string
	for _, col := range TargetColumns {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &ShapeError{Missing: missing}
	}
	return nil
}

func toWorkOrders(df dataframe.DataFrame, fyStart time.Month) ([]models.WorkOrder, error) {
	records := df.Records()
	if len(records) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}

	orders := make([]models.WorkOrder, 0, len(records)-1)
	for row, rec := range records[1:] {
		requested, err := parseTimestamp(rec[col["date_requested"]])
		if err != nil {
			return nil, &CoerceError{Row: row, Column: "date_requested", Value: rec[col["date_requested"]]}
		}
		if requested == nil {
			// The requested timestamp is never null in a valid export.
			return nil, &CoerceError{Row: row, Column: "date_requested", Value: rec[col["date_requested"]]}
		}

		completed, err := parseTimestamp(rec[col["date_completed"]])
		if err != nil {
			return nil, &CoerceError{Row: row, Column: "date_completed", Value: rec[col["date_completed"]]}
		}

		wo := models.WorkOrder{
			ID:                  rec[col["wo_id"]],
			ProbType:            rec[col["prob_type"]],
			BuildingID:          rec[col["bl_id"]],
			CompletedBy:         rec[col["completed_by"]],
			DateRequested:       *requested,
			DateCompleted:       completed,
			TimeStart:           rec[col["time_start"]],
			TimeEnd:             rec[col["time_end"]],
			TimeCompleted:       rec[col["time_completed"]],
			FiscalYearRequested: fiscal.Year(*requested, fyStart),
		}
		if completed != nil {
			wo.FiscalYearCompleted = fiscal.Year(*completed, fyStart)
		}
		orders = append(orders, wo)
	}
	return orders, nil
}

// parseTimestamp returns nil for null markers and a *CoerceError-worthy
// error for text that is present but unparseable.
func parseTimestamp(value string) (*time.Time, error) {
	switch strings.TrimSpace(value) {
	case "", "NA", "NaN", "null", "<nil>":
		return nil, nil
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(value)); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized timestamp %q", value)
}
