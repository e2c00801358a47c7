// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/billflow/backend/internal/domain/entity"
)

// SourcePeriodRepository exposes the externally maintained period calendar.
// The calendar is owned by a separate subsystem; this interface is read-only.
type SourcePeriodRepository interface {
	// FindByID retrieves one source period.
	FindByID(ctx context.Context, id string) (*entity.SourcePeriod, error)

	// FindOverlapping retrieves all source periods intersecting the
	// inclusive window [start, end], across all period types, ordered by
	// start date.
	FindOverlapping(ctx context.Context, start, end time.Time) ([]*entity.SourcePeriod, error)

	// FindIDsInRange retrieves the distinct source period ids of one period
	// type whose windows intersect [start, end]. Used to bound full summary
	// rebuilds.
	FindIDsInRange(ctx context.Context, periodType entity.PeriodType, start, end time.Time) ([]string, error)
}
