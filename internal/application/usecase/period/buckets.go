// Package period contains period materialization and the obligation
// lifecycle handlers.
package period

import (
	"context"

	"github.com/google/uuid"

	"github.com/billflow/backend/internal/application/usecase/summary"
	"github.com/billflow/backend/internal/domain/entity"
	"github.com/billflow/backend/internal/domain/valueobject"
)

// bucketKey is the de-duplication key for downstream summary recomputes.
type bucketKey struct {
	sourcePeriodID string
	periodType     entity.PeriodType
}

// bucketSet collects the distinct summary buckets touched by a run so each
// is recomputed exactly once per invocation.
type bucketSet map[bucketKey]struct{}

func (s bucketSet) add(p *entity.Period) {
	s[bucketKey{sourcePeriodID: p.SourcePeriodID, periodType: p.PeriodType}] = struct{}{}
}

// recompute issues one targeted summary recompute per touched bucket.
// Failures are recorded on the result; sibling buckets still run. This is
// the next cascade stage, invoked only after the period commits succeeded.
func (s bucketSet) recompute(
	ctx context.Context,
	recalculate *summary.RecalculateBucketUseCase,
	ownerID uuid.UUID,
	ownerType entity.OwnerType,
	result *valueobject.MaterializationResult,
) {
	for key := range s {
		err := recalculate.Execute(ctx, summary.RecalculateBucketInput{
			OwnerID:        ownerID,
			OwnerType:      ownerType,
			SourcePeriodID: key.sourcePeriodID,
			PeriodType:     key.periodType,
		})
		if err != nil {
			result.RecordError("summary:"+key.sourcePeriodID, err)
		}
	}
}
