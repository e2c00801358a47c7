// Package summary contains the aggregation recalculator use cases.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
	"github.com/billflow/backend/internal/domain/valueobject"
)

// RebuildSummaryInput identifies one summary document to rebuild in full.
type RebuildSummaryInput struct {
	OwnerID    uuid.UUID
	OwnerType  entity.OwnerType
	PeriodType entity.PeriodType
}

// RebuildSummaryUseCase rebuilds a whole summary document by targeted
// recompute of every source period bucket inside a bounded historical and
// future window. Backfill and repair only; steady-state convergence comes
// from the targeted recomputes the lifecycle handlers issue.
type RebuildSummaryUseCase struct {
	sourcePeriodRepo adapter.SourcePeriodRepository
	recalculate      *RecalculateBucketUseCase
	lookbackMonths   int
	lookaheadMonths  int
	now              func() time.Time
}

// NewRebuildSummaryUseCase creates a new RebuildSummaryUseCase instance.
func NewRebuildSummaryUseCase(
	sourcePeriodRepo adapter.SourcePeriodRepository,
	recalculate *RecalculateBucketUseCase,
	lookbackMonths int,
	lookaheadMonths int,
) *RebuildSummaryUseCase {
	return &RebuildSummaryUseCase{
		sourcePeriodRepo: sourcePeriodRepo,
		recalculate:      recalculate,
		lookbackMonths:   lookbackMonths,
		lookaheadMonths:  lookaheadMonths,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Test hook.
func (uc *RebuildSummaryUseCase) WithClock(now func() time.Time) *RebuildSummaryUseCase {
	uc.now = now
	return uc
}

// Execute enumerates the distinct source period ids in the window and
// targeted-recomputes each bucket, collecting per-bucket failures.
func (uc *RebuildSummaryUseCase) Execute(ctx context.Context, input RebuildSummaryInput) (*valueobject.RebuildResult, error) {
	result := &valueobject.RebuildResult{}

	now := uc.now()
	start := now.AddDate(0, -uc.lookbackMonths, 0)
	end := now.AddDate(0, uc.lookaheadMonths, 0)

	ids, err := uc.sourcePeriodRepo.FindIDsInRange(ctx, input.PeriodType, start, end)
	if err != nil {
		return nil, fmt.Errorf("enumerate source periods: %w", err)
	}

	for _, sourcePeriodID := range ids {
		err := uc.recalculate.Execute(ctx, RecalculateBucketInput{
			OwnerID:        input.OwnerID,
			OwnerType:      input.OwnerType,
			SourcePeriodID: sourcePeriodID,
			PeriodType:     input.PeriodType,
		})
		if err != nil {
			result.RecordError(sourcePeriodID, err)
			continue
		}
		result.BucketsRecomputed++
	}

	slog.Info("Rebuilt summary",
		"owner_id", input.OwnerID,
		"period_type", input.PeriodType,
		"buckets", result.BucketsRecomputed,
		"errors", len(result.Errors),
	)
	return result, nil
}
