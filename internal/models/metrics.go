package models

import "time"

// CategoryMetrics aggregates completed work orders for one problem type.
//
// MeanDays is the category's mean completion duration in whole days,
// truncated toward zero. PercentOnTime is the share of orders whose own
// duration did not exceed that mean; the threshold is data dependent, not a
// fixed SLA.
type CategoryMetrics struct {
	ProbType      string  `json:"prob_type"`
	Count         int     `json:"count"`
	MeanDays      int64   `json:"mean_days"`
	PercentOnTime float64 `json:"percent_on_time"`
}

// FiscalYearVolume is the number of requests bucketed into one fiscal year.
type FiscalYearVolume struct {
	FiscalYear int `json:"fiscal_year"`
	Count      int `json:"count"`
}

// FetchSnapshot records one catalog fetch for the trends history.
type FetchSnapshot struct {
	ID        int64     `json:"id"`
	FetchedAt time.Time `json:"fetched_at"`
	RowCount  int       `json:"row_count"`
	OpenCount int       `json:"open_count"`
	Dataset   string    `json:"dataset"`
	Table     string    `json:"table"`
}
