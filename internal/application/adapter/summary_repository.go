// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/billflow/backend/internal/domain/entity"
)

// SummaryMutator applies one or more logical sub-operations to a summary
// document inside a single read-modify-write transaction. Mutating through
// this function is what prevents lost updates from concurrent triggers.
type SummaryMutator func(summary *entity.Summary) error

// SummaryRepository defines the interface for summary persistence operations.
type SummaryRepository interface {
	// Find retrieves the summary document for an owner and period type.
	// Returns ErrSummaryNotFound when none exists yet.
	Find(ctx context.Context, ownerID uuid.UUID, ownerType entity.OwnerType, periodType entity.PeriodType) (*entity.Summary, error)

	// Mutate loads (or initializes) the summary for the key, applies fn, and
	// persists the result, all inside one transaction. Concurrent Mutate
	// calls against the same document serialize on the row.
	Mutate(ctx context.Context, ownerID uuid.UUID, ownerType entity.OwnerType, periodType entity.PeriodType, fn SummaryMutator) error
}
