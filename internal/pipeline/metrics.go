package pipeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/dgs-kpis/fmd-dashboard/internal/models"
	"github.com/dgs-kpis/fmd-dashboard/internal/validate"
)

// OpenOrdersError reports work orders with an undefined duration passed to
// a computation that requires completed orders only.
type OpenOrdersError struct {
	Open int
}

func (e *OpenOrdersError) Error() string {
	return fmt.Sprintf("pipeline: %d open work orders have no duration; filter with CompletedOnly first", e.Open)
}

// CompletedOnly returns the subset of orders with a defined duration.
func CompletedOnly(orders []models.WorkOrder) []models.WorkOrder {
	completed := make([]models.WorkOrder, 0, len(orders))
	for _, wo := range orders {
		if !wo.IsOpen() {
			completed = append(completed, wo)
		}
	}
	return completed
}

// OnTimeByCategory aggregates completed orders into per-category metrics.
//
// The mean duration is expressed in whole days truncated toward zero, and
// an order counts as on-time when its own whole-day duration does not
// exceed that mean. The threshold is relative to the category's own data,
// not a fixed SLA. Results are sorted by category key ascending.
//
// Orders with a null duration are a precondition violation and produce an
// *OpenOrdersError.
func OnTimeByCategory(orders []models.WorkOrder) ([]models.CategoryMetrics, error) {
	completions := make([]*time.Time, len(orders))
	for i := range orders {
		completions[i] = orders[i].DateCompleted
	}
	if !validate.NoNulls(completions) {
		open := 0
		for _, c := range completions {
			if c == nil {
				open++
			}
		}
		return nil, &OpenOrdersError{Open: open}
	}

	byCategory := make(map[string][]time.Duration)
	for _, wo := range orders {
		d, _ := wo.Duration()
		byCategory[wo.ProbType] = append(byCategory[wo.ProbType], d)
	}

	metrics := make([]models.CategoryMetrics, 0, len(byCategory))
	for category, durations := range byCategory {
		var total time.Duration
		for _, d := range durations {
			total += d
		}
		mean := total / time.Duration(len(durations))
		meanDays := wholeDays(mean)

		onTime := 0
		for _, d := range durations {
			if wholeDays(d) <= meanDays {
				onTime++
			}
		}

		metrics = append(metrics, models.CategoryMetrics{
			ProbType:      category,
			Count:         len(durations),
			MeanDays:      meanDays,
			PercentOnTime: float64(onTime) / float64(len(durations)) * 100,
		})
	}

	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].ProbType < metrics[j].ProbType
	})
	return metrics, nil
}

// RequestVolume buckets orders into fiscal years by requested date,
// returning volumes sorted by year ascending.
func RequestVolume(orders []models.WorkOrder) []models.FiscalYearVolume {
	counts := make(map[int]int)
	for _, wo := range orders {
		counts[wo.FiscalYearRequested]++
	}

	volumes := make([]models.FiscalYearVolume, 0, len(counts))
	for fy, n := range counts {
		volumes = append(volumes, models.FiscalYearVolume{FiscalYear: fy, Count: n})
	}
	sort.Slice(volumes, func(i, j int) bool {
		return volumes[i].FiscalYear < volumes[j].FiscalYear
	})
	return volumes
}

// wholeDays truncates a duration to whole days toward zero.
func wholeDays(d time.Duration) int64 {
	return int64(d / (24 * time.Hour))
}
