// Package entity defines the core business entities for the domain layer.
package entity

import "time"

// PeriodType represents the calendar granularity of a source period.
type PeriodType string

const (
	PeriodTypeWeek  PeriodType = "week"
	PeriodTypeMonth PeriodType = "month"
	PeriodTypeYear  PeriodType = "year"
)

// SourcePeriod is an externally supplied calendar window periods are
// generated against. It is owned by a separate period-calendar subsystem and
// consumed read-only here.
type SourcePeriod struct {
	ID        string
	Type      PeriodType
	StartDate time.Time
	EndDate   time.Time
	Year      int
}

// Contains reports whether t falls inside the period, boundaries inclusive.
func (p *SourcePeriod) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return !day.Before(dayOf(p.StartDate)) && !day.After(dayOf(p.EndDate))
}

// Overlaps reports whether the period intersects [start, end], inclusive.
func (p *SourcePeriod) Overlaps(start, end time.Time) bool {
	return !dayOf(p.EndDate).Before(dayOf(start)) && !dayOf(p.StartDate).After(dayOf(end))
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
