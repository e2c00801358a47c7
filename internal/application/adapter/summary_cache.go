// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/billflow/backend/internal/domain/entity"
)

// SummaryCache is the read-through cache in front of summary documents.
// Summaries are the read-optimized surface, so they take the cache; writes
// go straight to the store and invalidate.
type SummaryCache interface {
	// Get returns the cached summary or nil on a miss. Cache failures are
	// soft: implementations return (nil, err) and callers fall back to the
	// store.
	Get(ctx context.Context, summaryID string) (*entity.Summary, error)

	// Set stores the summary under its ID with the configured TTL.
	Set(ctx context.Context, summary *entity.Summary) error

	// Invalidate drops the cached summary after a recompute.
	Invalidate(ctx context.Context, summaryID string) error
}
