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

// RematchObligationInput represents a linked-transaction-set change.
type RematchObligationInput struct {
	ObligationID uuid.UUID
}

// RematchObligationUseCase re-runs the full matcher over every period of an
// obligation. Safe to invoke any number of times because the matcher is
// idempotent and total; periods whose state does not change are not
// rewritten and trigger no downstream recompute.
type RematchObligationUseCase struct {
	obligationRepo adapter.ObligationRepository
	periodRepo     adapter.PeriodRepository
	match          *matching.MatchTransactionsUseCase
	recalculate    *summary.RecalculateBucketUseCase
}

// NewRematchObligationUseCase creates a new RematchObligationUseCase instance.
func NewRematchObligationUseCase(
	obligationRepo adapter.ObligationRepository,
	periodRepo adapter.PeriodRepository,
	match *matching.MatchTransactionsUseCase,
	recalculate *summary.RecalculateBucketUseCase,
) *RematchObligationUseCase {
	return &RematchObligationUseCase{
		obligationRepo: obligationRepo,
		periodRepo:     periodRepo,
		match:          match,
		recalculate:    recalculate,
	}
}

// Execute re-matches every period of the obligation and recomputes the
// summary buckets of periods whose state actually changed.
func (uc *RematchObligationUseCase) Execute(ctx context.Context, input RematchObligationInput) (*valueobject.MaterializationResult, error) {
	obligation, err := uc.obligationRepo.FindByID(ctx, input.ObligationID)
	if err != nil {
		if errors.Is(err, domainerror.ErrObligationNotFound) {
			slog.Warn("Obligation missing for rematch, skipping", "obligation_id", input.ObligationID)
			return &valueobject.MaterializationResult{}, nil
		}
		return nil, err
	}

	periods, err := uc.periodRepo.FindByObligation(ctx, obligation.ID)
	if err != nil {
		return nil, err
	}

	result := &valueobject.MaterializationResult{PeriodsQueried: len(periods)}
	buckets := make(bucketSet)

	for _, p := range periods {
		out, err := uc.match.Execute(ctx, matching.MatchTransactionsInput{PeriodID: p.ID, Period: p})
		if err != nil {
			result.RecordError(p.ID, err)
			continue
		}
		if out.Written {
			result.PeriodsWritten++
			buckets.add(out.Period)
		} else {
			result.PeriodsSkipped++
		}
	}

	buckets.recompute(ctx, uc.recalculate, obligation.OwnerID, obligation.OwnerType, result)
	return result, nil
}
