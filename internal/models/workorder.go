// Package models defines data structures and domain types.
package models

import "time"

// WorkOrder is a single maintenance request from the facilities export.
//
// DateRequested is always set; DateCompleted stays nil while the order is
// open, and every value derived from it (duration, completed fiscal year)
// is undefined until the order closes.
type WorkOrder struct {
	ID            string     `json:"wo_id"`
	ProbType      string     `json:"prob_type"`
	BuildingID    string     `json:"bl_id"`
	CompletedBy   string     `json:"completed_by"`
	DateRequested time.Time  `json:"date_requested"`
	DateCompleted *time.Time `json:"date_completed,omitempty"`
	TimeStart     string     `json:"time_start,omitempty"`
	TimeEnd       string     `json:"time_end,omitempty"`
	TimeCompleted string     `json:"time_completed,omitempty"`

	// Derived during cleaning.
	FiscalYearRequested int `json:"fiscal_year_requested"`
	FiscalYearCompleted int `json:"fiscal_year_completed,omitempty"`
}

// IsOpen reports whether the order has not been completed yet.
func (w *WorkOrder) IsOpen() bool {
	return w.DateCompleted == nil
}

// Duration returns completed minus requested. The second return value is
// false while the order is open.
func (w *WorkOrder) Duration() (time.Duration, bool) {
	if w.DateCompleted == nil {
		return 0, false
	}
	return w.DateCompleted.Sub(w.DateRequested), true
}

// DurationDays returns the completion duration in fractional days.
func (w *WorkOrder) DurationDays() (float64, bool) {
	d, ok := w.Duration()
	if !ok {
		return 0, false
	}
	return d.Hours() / 24, true
}
