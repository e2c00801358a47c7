// Package error defines domain-specific errors for the Billflow application.
package error

import "errors"

// Obligation domain errors.
var (
	// ErrObligationNotFound is returned when an obligation is not found in the system.
	ErrObligationNotFound = errors.New("obligation not found")

	// ErrMissingAnchorDate is returned when an obligation has no usable
	// scheduling anchor (no predicted, last, or first date).
	ErrMissingAnchorDate = errors.New("obligation has no anchor date")

	// ErrInvalidObligationAmount is returned when the amount is zero or unparseable.
	ErrInvalidObligationAmount = errors.New("invalid obligation amount")

	// ErrInvalidObligationType is returned when the obligation type is unknown.
	ErrInvalidObligationType = errors.New("invalid obligation type")

	// ErrObligationInactive is returned when an operation requires an active obligation.
	ErrObligationInactive = errors.New("obligation is inactive")

	// ErrNotAuthorizedToModifyObligation is returned when the caller does not own the obligation.
	ErrNotAuthorizedToModifyObligation = errors.New("not authorized to modify obligation")
)
