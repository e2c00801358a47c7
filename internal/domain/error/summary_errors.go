// Package error defines domain-specific errors for the Billflow application.
package error

import "errors"

// Summary domain errors.
var (
	// ErrSummaryNotFound is returned when a summary document is not found.
	ErrSummaryNotFound = errors.New("summary not found")
)
