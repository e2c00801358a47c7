// Package period contains period materialization and the obligation
// lifecycle handlers.
package period

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/application/usecase/occurrence"
	"github.com/billflow/backend/internal/domain/entity"
	"github.com/billflow/backend/internal/domain/valueobject"
)

// MaterializePeriodsInput represents the input for period materialization.
type MaterializePeriodsInput struct {
	Obligation *entity.Obligation

	// Optional explicit window. When zero, the generation window runs from
	// the obligation's first known date through the configured horizon
	// forward from now.
	WindowStart time.Time
	WindowEnd   time.Time
}

// MaterializePeriodsUseCase builds one period per (obligation, source
// period) pair across the generation window and writes them in chunked
// batches respecting the store's per-batch write ceiling.
type MaterializePeriodsUseCase struct {
	periodRepo       adapter.PeriodRepository
	sourcePeriodRepo adapter.SourcePeriodRepository
	generate         *occurrence.GenerateOccurrencesUseCase
	prorate          *occurrence.CalculateProrationUseCase
	batchLimit       int
	horizonMonths    int
	now              func() time.Time
}

// NewMaterializePeriodsUseCase creates a new MaterializePeriodsUseCase instance.
func NewMaterializePeriodsUseCase(
	periodRepo adapter.PeriodRepository,
	sourcePeriodRepo adapter.SourcePeriodRepository,
	batchLimit int,
	horizonMonths int,
) *MaterializePeriodsUseCase {
	return &MaterializePeriodsUseCase{
		periodRepo:       periodRepo,
		sourcePeriodRepo: sourcePeriodRepo,
		generate:         occurrence.NewGenerateOccurrencesUseCase(),
		prorate:          occurrence.NewCalculateProrationUseCase(),
		batchLimit:       batchLimit,
		horizonMonths:    horizonMonths,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Test hook.
func (uc *MaterializePeriodsUseCase) WithClock(now func() time.Time) *MaterializePeriodsUseCase {
	uc.now = now
	return uc
}

// Execute materializes periods for every source period overlapping the
// generation window. A single period's failure is recorded and does not
// abort its siblings. Batches are committed sequentially and independently;
// a mid-sequence failure leaves earlier chunks committed, which is safe
// because re-running materialization is idempotent.
func (uc *MaterializePeriodsUseCase) Execute(ctx context.Context, input MaterializePeriodsInput) (*valueobject.MaterializationResult, error) {
	obligation := input.Obligation
	result := &valueobject.MaterializationResult{}

	start, end := input.WindowStart, input.WindowEnd
	if start.IsZero() {
		start = obligation.FirstDate
	}
	if end.IsZero() {
		end = uc.now().AddDate(0, uc.horizonMonths, 0)
	}

	sourcePeriods, err := uc.sourcePeriodRepo.FindOverlapping(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("query source periods: %w", err)
	}
	result.PeriodsQueried = len(sourcePeriods)

	var batch []*entity.Period
	for _, sp := range sourcePeriods {
		p, err := buildPeriod(uc.generate, uc.prorate, obligation, sp)
		if err != nil {
			result.RecordError(sp.ID, err)
			continue
		}
		batch = append(batch, p)
	}

	for chunkStart := 0; chunkStart < len(batch); chunkStart += uc.batchLimit {
		chunkEnd := chunkStart + uc.batchLimit
		if chunkEnd > len(batch) {
			chunkEnd = len(batch)
		}
		chunk := batch[chunkStart:chunkEnd]

		if err := uc.periodRepo.SaveBatch(ctx, chunk); err != nil {
			result.RecordError(fmt.Sprintf("batch[%d:%d]", chunkStart, chunkEnd), err)
			continue
		}
		for _, p := range chunk {
			result.PeriodsWritten++
			result.PeriodIDs = append(result.PeriodIDs, p.ID)
		}
	}

	slog.Info("Materialized periods",
		"obligation_id", obligation.ID,
		"queried", result.PeriodsQueried,
		"written", result.PeriodsWritten,
		"errors", len(result.Errors),
	)
	return result, nil
}
