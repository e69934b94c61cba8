// Package reports derives read-only analytical views from the ledger.
//
// Reports never mutate state. Periods with no underlying rows are
// reported with zero values, never omitted, and every percentage or
// average computation guards against division by zero.
package reports

import (
	"errors"
	"time"
)

// Period is the grouping granularity of a report.
type Period string

const (
	PeriodDay     Period = "day"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

var ErrPeriodInvalid = errors.New("the period must be one of day, week, month, quarter, year")

// Valid reports whether the period is one of the known values.
func (p Period) Valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return true
	}
	return false
}

// Truncate returns the start of the period bucket that contains t.
// Weeks start on Monday.
func (p Period) Truncate(t time.Time) time.Time {
	t = t.In(time.UTC)
	year, month, day := t.Date()

	switch p {
	case PeriodWeek:
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1-weekday)
	case PeriodMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	case PeriodQuarter:
		quarterMonth := month - (month-1)%3
		return time.Date(year, quarterMonth, 1, 0, 0, 0, 0, time.UTC)
	case PeriodYear:
		return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Next returns the start of the period bucket following the one that
// starts at t.
func (p Period) Next(t time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return t.AddDate(0, 0, 7)
	case PeriodMonth:
		return t.AddDate(0, 1, 0)
	case PeriodQuarter:
		return t.AddDate(0, 3, 0)
	case PeriodYear:
		return t.AddDate(1, 0, 0)
	}

	return t.AddDate(0, 0, 1)
}
