// Package error defines domain-specific errors for the Billflow application.
package error

import "errors"

// Period and source period domain errors.
var (
	// ErrPeriodNotFound is returned when a period is not found in the system.
	ErrPeriodNotFound = errors.New("period not found")

	// ErrSourcePeriodNotFound is returned when a referenced source period does not exist.
	ErrSourcePeriodNotFound = errors.New("source period not found")

	// ErrEmptyOccurrenceDates is returned when matching is attempted against a
	// period with no occurrence due dates.
	ErrEmptyOccurrenceDates = errors.New("period has no occurrence due dates")

	// ErrPeriodSettled is returned when an amount recompute targets a period
	// with paid occurrences. Settled history is frozen.
	ErrPeriodSettled = errors.New("period has settled occurrences")
)
