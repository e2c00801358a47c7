// Package period contains period materialization and the obligation
// lifecycle handlers.
package period

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/application/usecase/occurrence"
	"github.com/billflow/backend/internal/application/usecase/summary"
	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
	"github.com/billflow/backend/internal/domain/valueobject"
)

// HandleObligationUpdatedInput represents an updated-obligation event with
// its field-change classification.
type HandleObligationUpdatedInput struct {
	ObligationID  uuid.UUID
	AmountChanged bool
	NameChanged   bool
	LinkedChanged bool
	Deactivated   bool
}

// HandleObligationUpdatedUseCase reacts to obligation field changes:
//
//   - amount changes rebuild every period except those with settled
//     occurrences, which are frozen to protect paid history;
//   - name-only changes update display fields on all periods, settled ones
//     included;
//   - linked-transaction changes delegate to the full re-matcher;
//   - deactivation marks existing periods inactive (they remain queryable)
//     and stops future generation.
//
// Every touched bucket gets a targeted summary recompute afterwards.
type HandleObligationUpdatedUseCase struct {
	obligationRepo   adapter.ObligationRepository
	periodRepo       adapter.PeriodRepository
	sourcePeriodRepo adapter.SourcePeriodRepository
	generate         *occurrence.GenerateOccurrencesUseCase
	prorate          *occurrence.CalculateProrationUseCase
	rematch          *RematchObligationUseCase
	recalculate      *summary.RecalculateBucketUseCase
}

// NewHandleObligationUpdatedUseCase creates a new HandleObligationUpdatedUseCase instance.
func NewHandleObligationUpdatedUseCase(
	obligationRepo adapter.ObligationRepository,
	periodRepo adapter.PeriodRepository,
	sourcePeriodRepo adapter.SourcePeriodRepository,
	rematch *RematchObligationUseCase,
	recalculate *summary.RecalculateBucketUseCase,
) *HandleObligationUpdatedUseCase {
	return &HandleObligationUpdatedUseCase{
		obligationRepo:   obligationRepo,
		periodRepo:       periodRepo,
		sourcePeriodRepo: sourcePeriodRepo,
		generate:         occurrence.NewGenerateOccurrencesUseCase(),
		prorate:          occurrence.NewCalculateProrationUseCase(),
		rematch:          rematch,
		recalculate:      recalculate,
	}
}

// Execute applies the change set to every period of the obligation.
// Individual period failures are collected and do not abort siblings.
func (uc *HandleObligationUpdatedUseCase) Execute(ctx context.Context, input HandleObligationUpdatedInput) (*valueobject.MaterializationResult, error) {
	obligation, err := uc.obligationRepo.FindByID(ctx, input.ObligationID)
	if err != nil {
		if errors.Is(err, domainerror.ErrObligationNotFound) {
			slog.Warn("Obligation missing for updated event, skipping", "obligation_id", input.ObligationID)
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
		written, err := uc.applyToPeriod(ctx, obligation, p, input)
		if err != nil {
			result.RecordError(p.ID, err)
			continue
		}
		if written {
			result.PeriodsWritten++
			result.PeriodIDs = append(result.PeriodIDs, p.ID)
			buckets.add(p)
		} else {
			result.PeriodsSkipped++
		}
	}

	buckets.recompute(ctx, uc.recalculate, obligation.OwnerID, obligation.OwnerType, result)

	if input.LinkedChanged {
		rematchResult, err := uc.rematch.Execute(ctx, RematchObligationInput{ObligationID: obligation.ID})
		if err != nil {
			result.RecordError("rematch", err)
		} else {
			result.Errors = append(result.Errors, rematchResult.Errors...)
		}
	}

	slog.Info("Applied obligation update",
		"obligation_id", obligation.ID,
		"queried", result.PeriodsQueried,
		"written", result.PeriodsWritten,
		"skipped", result.PeriodsSkipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

// applyToPeriod applies the change set to a single period, returning whether
// the period was written.
func (uc *HandleObligationUpdatedUseCase) applyToPeriod(
	ctx context.Context,
	obligation *entity.Obligation,
	p *entity.Period,
	input HandleObligationUpdatedInput,
) (bool, error) {
	touched := false

	if input.Deactivated && p.State != entity.PeriodStateInactive {
		p.State = entity.PeriodStateInactive
		touched = true
	}

	if input.NameChanged && (p.MerchantName != obligation.MerchantName || p.Description != obligation.Description) {
		p.MerchantName = obligation.MerchantName
		p.Description = obligation.Description
		touched = true
	}

	if input.AmountChanged {
		if p.HasPaidOccurrence() {
			// Settled history is frozen against amount recomputation.
			slog.Debug("Period settled, amount change not applied", "period_id", p.ID)
		} else {
			if err := uc.rebuildAmounts(ctx, obligation, p); err != nil {
				return false, err
			}
			touched = true
		}
	}

	if !touched {
		return false, nil
	}

	p.UpdatedAt = time.Now().UTC()
	if err := uc.periodRepo.Save(ctx, p); err != nil {
		return false, fmt.Errorf("save period: %w", err)
	}
	return true, nil
}

// rebuildAmounts recomputes occurrences, proration, and totals in place from
// the obligation's current amount. Only called for periods without settled
// occurrences, so wiping payment state loses nothing; the caller re-matches
// afterwards when the linked set changed.
func (uc *HandleObligationUpdatedUseCase) rebuildAmounts(ctx context.Context, obligation *entity.Obligation, p *entity.Period) error {
	sourcePeriod, err := uc.sourcePeriodRepo.FindByID(ctx, p.SourcePeriodID)
	if err != nil {
		if errors.Is(err, domainerror.ErrSourcePeriodNotFound) {
			return fmt.Errorf("source period %s: %w", p.SourcePeriodID, err)
		}
		return err
	}

	rebuilt, err := buildPeriod(uc.generate, uc.prorate, obligation, sourcePeriod)
	if err != nil {
		return err
	}

	p.AmountPerOccurrence = rebuilt.AmountPerOccurrence
	p.ProratedAmount = rebuilt.ProratedAmount
	p.DueInPeriod = rebuilt.DueInPeriod
	p.Occurrences = rebuilt.Occurrences
	p.RecalculateTotals()
	return nil
}
