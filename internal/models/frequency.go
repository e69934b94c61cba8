package models

import (
	"errors"
	"time"
)

// Frequency is the recurrence interval of an income event or payment.
type Frequency string

const (
	FrequencyOnce      Frequency = "once"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnual    Frequency = "annual"
)

var ErrFrequencyInvalid = errors.New("the frequency must be one of once, weekly, biweekly, monthly, quarterly, annual")

// Valid reports whether the frequency is one of the known values.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyOnce, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyQuarterly, FrequencyAnnual:
		return true
	}
	return false
}

// Recurring reports whether the frequency spawns follow-up occurrences.
func (f Frequency) Recurring() bool {
	return f.Valid() && f != FrequencyOnce
}

// NextDate projects the next occurrence after t.
//
// Month and year arithmetic clamps to the last valid day of the target
// month, so a monthly event on Jan 31 lands on Feb 28 (or 29).
// For FrequencyOnce the date is returned unchanged.
func (f Frequency) NextDate(t time.Time) time.Time {
	switch f {
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyBiweekly:
		return t.AddDate(0, 0, 14)
	case FrequencyMonthly:
		return addMonthsClamped(t, 1)
	case FrequencyQuarterly:
		return addMonthsClamped(t, 3)
	case FrequencyAnnual:
		return addMonthsClamped(t, 12)
	}

	return t
}

// addMonthsClamped adds months to t without the overflow behavior of
// time.AddDate: if the source day does not exist in the target month,
// the last day of the target month is used.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	firstOfTarget := time.Date(year, month, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}
