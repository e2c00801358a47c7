// Package summary contains the aggregation recalculator use cases.
package summary

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
)

// GetSummaryInput identifies one summary document to read.
type GetSummaryInput struct {
	OwnerID    uuid.UUID
	OwnerType  entity.OwnerType
	PeriodType entity.PeriodType
}

// GetSummaryUseCase serves summary reads through the cache. Summaries are the
// read-optimized surface, so this is the one read path that goes through
// Redis; cache failures degrade to the store.
type GetSummaryUseCase struct {
	summaryRepo adapter.SummaryRepository
	cache       adapter.SummaryCache
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance. The cache
// may be nil when no cache is configured.
func NewGetSummaryUseCase(summaryRepo adapter.SummaryRepository, cache adapter.SummaryCache) *GetSummaryUseCase {
	return &GetSummaryUseCase{
		summaryRepo: summaryRepo,
		cache:       cache,
	}
}

// Execute returns the summary document, reading through the cache.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*entity.Summary, error) {
	summaryID := entity.SummaryID(input.OwnerID, input.OwnerType, input.PeriodType)

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, summaryID)
		if err != nil {
			slog.Warn("Summary cache read failed, falling back to store", "summary_id", summaryID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	summary, err := uc.summaryRepo.Find(ctx, input.OwnerID, input.OwnerType, input.PeriodType)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, summary); err != nil {
			slog.Warn("Summary cache write failed", "summary_id", summaryID, "error", err)
		}
	}
	return summary, nil
}
