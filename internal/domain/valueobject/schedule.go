// Package valueobject contains domain value objects for the Billflow system.
package valueobject

import "time"

// Cadence represents the recurrence frequency class of an obligation.
type Cadence string

const (
	CadenceWeekly      Cadence = "weekly"
	CadenceBiweekly    Cadence = "biweekly"
	CadenceSemimonthly Cadence = "semimonthly"
	CadenceMonthly     Cadence = "monthly"
	CadenceAnnually    Cadence = "annually"
)

// NormalizeCadence maps a raw cadence string to a known Cadence. Unknown
// values fall back to monthly; the second return reports whether the input
// was recognized so callers can log the fallback.
func NormalizeCadence(raw string) (Cadence, bool) {
	switch Cadence(raw) {
	case CadenceWeekly, CadenceBiweekly, CadenceSemimonthly, CadenceMonthly, CadenceAnnually:
		return Cadence(raw), true
	default:
		return CadenceMonthly, false
	}
}

// NominalDays returns the fixed nominal length of one cadence interval in
// days, used for ratio-based proration of non-monthly cadences.
func (c Cadence) NominalDays() int {
	switch c {
	case CadenceWeekly:
		return 7
	case CadenceBiweekly:
		return 14
	case CadenceSemimonthly:
		return 15
	case CadenceAnnually:
		return 365
	default:
		return 30
	}
}

// Next steps a date forward by one cadence interval. Calendar-month and
// calendar-year steps clamp the day-of-month so Jan 31 + 1 month lands on
// the last valid day of February rather than overflowing into March.
func (c Cadence) Next(t time.Time) time.Time {
	switch c {
	case CadenceWeekly:
		return t.AddDate(0, 0, 7)
	case CadenceBiweekly:
		return t.AddDate(0, 0, 14)
	case CadenceSemimonthly:
		return t.AddDate(0, 0, 15)
	case CadenceAnnually:
		return addYearsClamped(t, 1)
	default:
		return addMonthsClamped(t, 1)
	}
}

// Previous steps a date backward by one cadence interval.
func (c Cadence) Previous(t time.Time) time.Time {
	switch c {
	case CadenceWeekly:
		return t.AddDate(0, 0, -7)
	case CadenceBiweekly:
		return t.AddDate(0, 0, -14)
	case CadenceSemimonthly:
		return t.AddDate(0, 0, -15)
	case CadenceAnnually:
		return addYearsClamped(t, -1)
	default:
		return addMonthsClamped(t, -1)
	}
}

// AdjustForWeekend shifts a due date that falls on a weekend to the draw
// date the payment actually moves: Saturday draws on Monday (+2 days),
// Sunday draws on Monday (+1 day).
func AdjustForWeekend(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	default:
		return t
	}
}

// DaysInclusive counts the calendar days between start and end, both
// endpoints included. Returns 0 when end precedes start.
func DaysInclusive(start, end time.Time) int {
	s := truncateToDay(start)
	e := truncateToDay(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// DaysInMonth returns the number of days in the calendar month containing t.
func DaysInMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, 1, -1).Day()
}

// addMonthsClamped adds months to t, clamping the day-of-month to the last
// valid day of the target month instead of letting it overflow.
func addMonthsClamped(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// addYearsClamped adds years to t, clamping Feb 29 to Feb 28 on non-leap
// target years.
func addYearsClamped(t time.Time, years int) time.Time {
	first := time.Date(t.Year()+years, t.Month(), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
