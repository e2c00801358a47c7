// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/billflow/backend/internal/domain/entity"
)

// LineItemRepository exposes the transaction ledger's line items that have
// been linked to obligations. The ledger itself is maintained elsewhere.
type LineItemRepository interface {
	// FindByObligation retrieves all settled (non-pending) line items linked
	// to an obligation, ordered by date.
	FindByObligation(ctx context.Context, obligationID uuid.UUID) ([]*entity.TransactionLineItem, error)

	// ReplaceForObligation replaces the linked line item set for an
	// obligation. Used when the obligation's linked-transaction ids change.
	ReplaceForObligation(ctx context.Context, obligationID uuid.UUID, items []*entity.TransactionLineItem) error
}
