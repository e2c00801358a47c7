// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/billflow/backend/internal/domain/entity"
)

// ObligationRepository defines the interface for obligation persistence operations.
type ObligationRepository interface {
	// CreateWithEvent persists the obligation and its lifecycle event in one
	// transaction, so a committed obligation always has a pending event for
	// the worker to pick up.
	CreateWithEvent(ctx context.Context, obligation *entity.Obligation, event *entity.ObligationEvent) error

	// FindByID retrieves an obligation by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Obligation, error)

	// FindByProviderStreamID retrieves an obligation by the external
	// provider's recurring-stream identifier. Returns ErrObligationNotFound
	// when no obligation has been ingested for that stream.
	FindByProviderStreamID(ctx context.Context, streamID string) (*entity.Obligation, error)

	// FindByOwner retrieves all obligations for an owner, optionally
	// restricted to active ones.
	FindByOwner(ctx context.Context, ownerID uuid.UUID, ownerType entity.OwnerType, activeOnly bool) ([]*entity.Obligation, error)

	// UpdateWithEvent persists obligation changes and the classified
	// lifecycle event in one transaction.
	UpdateWithEvent(ctx context.Context, obligation *entity.Obligation, event *entity.ObligationEvent) error
}
