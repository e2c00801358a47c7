// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/billflow/backend/internal/domain/entity"
)

// PeriodBucketKey identifies one summary bucket worth of periods: all
// periods for an owner inside a single source period of one period type.
type PeriodBucketKey struct {
	OwnerID        uuid.UUID
	OwnerType      entity.OwnerType
	SourcePeriodID string
	PeriodType     entity.PeriodType
}

// PeriodRepository defines the interface for period persistence operations.
//
// SaveBatch is the document store's batched atomic write: each call commits
// at most the store's per-batch write ceiling. Callers writing more than one
// batch worth of periods must chunk, and must tolerate partial completion
// between chunks (there is no cross-chunk atomicity).
type PeriodRepository interface {
	// FindByID retrieves a period by its deterministic ID.
	FindByID(ctx context.Context, id string) (*entity.Period, error)

	// FindByObligation retrieves all periods belonging to an obligation.
	FindByObligation(ctx context.Context, obligationID uuid.UUID) ([]*entity.Period, error)

	// FindActiveByBucket retrieves all active periods for one bucket key,
	// ordered by merchant name for stable summary entries.
	FindActiveByBucket(ctx context.Context, key PeriodBucketKey) ([]*entity.Period, error)

	// Save upserts a single period.
	Save(ctx context.Context, period *entity.Period) error

	// SaveBatch upserts one batch of periods atomically. The slice must not
	// exceed the store's per-batch write limit.
	SaveBatch(ctx context.Context, periods []*entity.Period) error
}
