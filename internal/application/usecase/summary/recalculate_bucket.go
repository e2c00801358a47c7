// Package summary contains the aggregation recalculator use cases.
package summary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
)

// RecalculateBucketInput identifies one summary bucket to rebuild.
type RecalculateBucketInput struct {
	OwnerID        uuid.UUID
	OwnerType      entity.OwnerType
	SourcePeriodID string
	PeriodType     entity.PeriodType
}

// RecalculateBucketUseCase rebuilds exactly one summary bucket from the
// current active period state. It never rescans other buckets, so
// concurrent recomputes of different source periods touch disjoint keys.
type RecalculateBucketUseCase struct {
	periodRepo  adapter.PeriodRepository
	summaryRepo adapter.SummaryRepository
	cache       adapter.SummaryCache
}

// NewRecalculateBucketUseCase creates a new RecalculateBucketUseCase instance.
// The cache may be nil when no cache is configured.
func NewRecalculateBucketUseCase(
	periodRepo adapter.PeriodRepository,
	summaryRepo adapter.SummaryRepository,
	cache adapter.SummaryCache,
) *RecalculateBucketUseCase {
	return &RecalculateBucketUseCase{
		periodRepo:  periodRepo,
		summaryRepo: summaryRepo,
		cache:       cache,
	}
}

// Execute re-queries the bucket's active periods and replaces the bucket
// inside a single read-modify-write transaction on the summary document.
// An empty result deletes the bucket key rather than leaving an empty list.
func (uc *RecalculateBucketUseCase) Execute(ctx context.Context, input RecalculateBucketInput) error {
	periods, err := uc.periodRepo.FindActiveByBucket(ctx, adapter.PeriodBucketKey{
		OwnerID:        input.OwnerID,
		OwnerType:      input.OwnerType,
		SourcePeriodID: input.SourcePeriodID,
		PeriodType:     input.PeriodType,
	})
	if err != nil {
		return fmt.Errorf("query bucket periods: %w", err)
	}

	entries := make([]entity.SummaryEntry, 0, len(periods))
	for _, p := range periods {
		entries = append(entries, entity.EntryFromPeriod(p))
	}

	err = uc.summaryRepo.Mutate(ctx, input.OwnerID, input.OwnerType, input.PeriodType, func(s *entity.Summary) error {
		s.SetBucket(input.SourcePeriodID, entries)
		return nil
	})
	if err != nil {
		return fmt.Errorf("mutate summary: %w", err)
	}

	if uc.cache != nil {
		summaryID := entity.SummaryID(input.OwnerID, input.OwnerType, input.PeriodType)
		if err := uc.cache.Invalidate(ctx, summaryID); err != nil {
			// Cache failures are soft; the entry expires on its own TTL.
			slog.Warn("Failed to invalidate summary cache", "summary_id", summaryID, "error", err)
		}
	}

	slog.Debug("Recalculated summary bucket",
		"owner_id", input.OwnerID,
		"source_period_id", input.SourcePeriodID,
		"entries", len(entries),
	)
	return nil
}
