// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/billflow/backend/internal/domain/entity"
)

// EventQueueRepository is the persistent queue standing between obligation
// writes and the lifecycle handlers. Delivery is at-least-once; consumers
// must be idempotent.
type EventQueueRepository interface {
	// Enqueue persists a pending event.
	Enqueue(ctx context.Context, event *entity.ObligationEvent) error

	// GetPending retrieves up to limit pending or retryable events, oldest first.
	GetPending(ctx context.Context, limit int) ([]*entity.ObligationEvent, error)

	// Update persists event state transitions.
	Update(ctx context.Context, event *entity.ObligationEvent) error
}
