// Package fiscal derives fiscal years from calendar dates.
//
// The default rule follows the Maryland government fiscal year, which runs
// from July 1st through June 30th: a date on or after the start month
// belongs to the next calendar year's fiscal year.
package fiscal

import (
	"fmt"
	"time"
)

// DefaultStartMonth is the first month of the fiscal year when none is
// configured.
const DefaultStartMonth = time.July

// StartMonthError reports a start month outside the 1-12 range.
type StartMonthError struct {
	Start time.Month
}

func (e *StartMonthError) Error() string {
	return fmt.Sprintf("fiscal: start month must be between 1 and 12, got %d", int(e.Start))
}

// ValidStart returns an error if start is not a real calendar month.
func ValidStart(start time.Month) error {
	if start < time.January || start > time.December {
		return &StartMonthError{Start: start}
	}
	return nil
}

// Year returns the four digit fiscal year for t.
//
// Dates in or after the start month fall into the fiscal year named for the
// following calendar year; earlier dates keep their own calendar year.
// Callers are expected to validate start with ValidStart first.
func Year(t time.Time, start time.Month) int {
	if t.Month() >= start {
		return t.Year() + 1
	}
	return t.Year()
}

// Years maps a sequence of dates to fiscal years, preserving order and
// length.
func Years(ts []time.Time, start time.Month) []int {
	years := make([]int, len(ts))
	for i, t := range ts {
		years[i] = Year(t, start)
	}
	return years
}
