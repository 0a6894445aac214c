// Package period computes calendar month boundaries.
package period

import (
	"fmt"
	"time"
)

// Range is a half-open date interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Month returns [first day of month, first day of next month) in UTC.
// time.Date normalises month 13 into January of the following year.
func Month(year, month int) (Range, error) {
	if month < 1 || month > 12 {
		return Range{}, fmt.Errorf("month %d out of range", month)
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	return Range{Start: start, End: start.AddDate(0, 1, 0)}, nil
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Last returns the last day included in the range.
func (r Range) Last() time.Time {
	return r.End.AddDate(0, 0, -1)
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
