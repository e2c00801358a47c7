// Package period contains period materialization and the obligation
// lifecycle handlers.
package period

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/application/usecase/matching"
	"github.com/billflow/backend/internal/application/usecase/summary"
	domainerror "github.com/billflow/backend/internal/domain/error"
	"github.com/billflow/backend/internal/domain/valueobject"
)

// HandleObligationCreatedInput represents a created-obligation event.
type HandleObligationCreatedInput struct {
	ObligationID uuid.UUID
}

// HandleObligationCreatedUseCase reacts to a new obligation: it materializes
// every overlapping period, matches already-linked transactions, then
// recomputes the touched summary buckets. Each stage commits independently;
// the next runs only after the previous commit succeeded, so a crash in the
// middle leaves stale-but-not-corrupt state an idempotent retry repairs.
type HandleObligationCreatedUseCase struct {
	obligationRepo adapter.ObligationRepository
	materialize    *MaterializePeriodsUseCase
	match          *matching.MatchTransactionsUseCase
	recalculate    *summary.RecalculateBucketUseCase
}

// NewHandleObligationCreatedUseCase creates a new HandleObligationCreatedUseCase instance.
func NewHandleObligationCreatedUseCase(
	obligationRepo adapter.ObligationRepository,
	materialize *MaterializePeriodsUseCase,
	match *matching.MatchTransactionsUseCase,
	recalculate *summary.RecalculateBucketUseCase,
) *HandleObligationCreatedUseCase {
	return &HandleObligationCreatedUseCase{
		obligationRepo: obligationRepo,
		materialize:    materialize,
		match:          match,
		recalculate:    recalculate,
	}
}

// Execute runs the created-obligation cascade. A missing obligation is a
// skip, not a failure: the event may have raced a later deactivation or
// arrived for a unit that no longer matters.
func (uc *HandleObligationCreatedUseCase) Execute(ctx context.Context, input HandleObligationCreatedInput) (*valueobject.MaterializationResult, error) {
	obligation, err := uc.obligationRepo.FindByID(ctx, input.ObligationID)
	if err != nil {
		if errors.Is(err, domainerror.ErrObligationNotFound) {
			slog.Warn("Obligation missing for created event, skipping", "obligation_id", input.ObligationID)
			return &valueobject.MaterializationResult{}, nil
		}
		return nil, err
	}

	if !obligation.IsActive() {
		slog.Info("Obligation inactive, skipping materialization", "obligation_id", obligation.ID)
		return &valueobject.MaterializationResult{PeriodsSkipped: 1}, nil
	}

	result, err := uc.materialize.Execute(ctx, MaterializePeriodsInput{Obligation: obligation})
	if err != nil {
		return nil, err
	}

	buckets := make(bucketSet)
	for _, periodID := range result.PeriodIDs {
		out, err := uc.match.Execute(ctx, matching.MatchTransactionsInput{PeriodID: periodID})
		if err != nil {
			result.RecordError(periodID, err)
			continue
		}
		buckets.add(out.Period)
	}

	buckets.recompute(ctx, uc.recalculate, obligation.OwnerID, obligation.OwnerType, result)
	return result, nil
}
