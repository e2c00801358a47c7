// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ObligationEventKind identifies which lifecycle transition an event records.
type ObligationEventKind string

const (
	ObligationEventCreated ObligationEventKind = "created"
	ObligationEventUpdated ObligationEventKind = "updated"
)

// ObligationEventStatus tracks queue processing state.
type ObligationEventStatus string

const (
	EventStatusPending    ObligationEventStatus = "pending"
	EventStatusProcessing ObligationEventStatus = "processing"
	EventStatusProcessed  ObligationEventStatus = "processed"
	EventStatusFailed     ObligationEventStatus = "failed"
)

// ObligationEvent is one queued change notification for an obligation. The
// event worker delivers these at-least-once to the lifecycle handlers, so
// obligation writes never block on downstream materialization.
type ObligationEvent struct {
	ID           uuid.UUID
	ObligationID uuid.UUID
	Kind         ObligationEventKind

	// Field-change classification computed by the update use case. Drives
	// which lifecycle handler work runs.
	AmountChanged bool
	NameChanged   bool
	LinkedChanged bool
	Deactivated   bool

	Status      ObligationEventStatus
	Attempts    int
	LastError   string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// NewObligationEvent creates a pending event for the given obligation.
func NewObligationEvent(obligationID uuid.UUID, kind ObligationEventKind) *ObligationEvent {
	return &ObligationEvent{
		ID:           uuid.New(),
		ObligationID: obligationID,
		Kind:         kind,
		Status:       EventStatusPending,
		CreatedAt:    time.Now().UTC(),
	}
}

// MarkProcessing transitions the event into the processing state.
func (e *ObligationEvent) MarkProcessing() {
	e.Status = EventStatusProcessing
	e.Attempts++
}

// MarkProcessed records successful delivery.
func (e *ObligationEvent) MarkProcessed() {
	now := time.Now().UTC()
	e.Status = EventStatusProcessed
	e.ProcessedAt = &now
}

// MarkFailed records a delivery failure. Failed events are retried on the
// next poll; handlers are idempotent so duplicate delivery is safe.
func (e *ObligationEvent) MarkFailed(err error) {
	e.Status = EventStatusFailed
	if err != nil {
		e.LastError = err.Error()
	}
}
