package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billflow/backend/internal/domain/entity"
)

func TestLineItemRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("should return settled items in date order", func(t *testing.T) {
		repo := NewLineItemRepository(newTestDB(t))
		obligationID := uuid.New()

		items := []*entity.TransactionLineItem{
			{ID: "tx-late", ObligationID: obligationID, Date: date(2024, time.June, 20), Amount: decimal.NewFromInt(10)},
			{ID: "tx-early", ObligationID: obligationID, Date: date(2024, time.June, 5), Amount: decimal.NewFromInt(10)},
			{ID: "tx-pending", ObligationID: obligationID, Date: date(2024, time.June, 10), Amount: decimal.NewFromInt(10), Pending: true},
		}
		if err := repo.ReplaceForObligation(ctx, obligationID, items); err != nil {
			t.Fatalf("replace failed: %v", err)
		}

		loaded, err := repo.FindByObligation(ctx, obligationID)
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}
		if len(loaded) != 2 {
			t.Fatalf("expected 2 settled items, got %d", len(loaded))
		}
		if loaded[0].ID != "tx-early" || loaded[1].ID != "tx-late" {
			t.Errorf("expected date ordering, got %q then %q", loaded[0].ID, loaded[1].ID)
		}
	})

	t.Run("should replace the set wholesale", func(t *testing.T) {
		repo := NewLineItemRepository(newTestDB(t))
		obligationID := uuid.New()

		first := []*entity.TransactionLineItem{
			{ID: "tx-1", ObligationID: obligationID, Date: date(2024, time.June, 5), Amount: decimal.NewFromInt(10)},
			{ID: "tx-2", ObligationID: obligationID, Date: date(2024, time.June, 12), Amount: decimal.NewFromInt(10)},
		}
		if err := repo.ReplaceForObligation(ctx, obligationID, first); err != nil {
			t.Fatalf("replace failed: %v", err)
		}

		second := []*entity.TransactionLineItem{
			{ID: "tx-3", ObligationID: obligationID, Date: date(2024, time.June, 19), Amount: decimal.NewFromInt(10)},
		}
		if err := repo.ReplaceForObligation(ctx, obligationID, second); err != nil {
			t.Fatalf("replace failed: %v", err)
		}

		loaded, err := repo.FindByObligation(ctx, obligationID)
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}
		if len(loaded) != 1 || loaded[0].ID != "tx-3" {
			t.Errorf("expected only the replacement set, got %d items", len(loaded))
		}
	})

	t.Run("should not touch other obligations on replace", func(t *testing.T) {
		repo := NewLineItemRepository(newTestDB(t))
		mine := uuid.New()
		theirs := uuid.New()

		if err := repo.ReplaceForObligation(ctx, theirs, []*entity.TransactionLineItem{
			{ID: "tx-theirs", ObligationID: theirs, Date: date(2024, time.June, 5), Amount: decimal.NewFromInt(10)},
		}); err != nil {
			t.Fatalf("replace failed: %v", err)
		}
		if err := repo.ReplaceForObligation(ctx, mine, nil); err != nil {
			t.Fatalf("replace failed: %v", err)
		}

		loaded, err := repo.FindByObligation(ctx, theirs)
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}
		if len(loaded) != 1 {
			t.Errorf("expected the other obligation's items intact, got %d", len(loaded))
		}
	})

	t.Run("should claim items for the target obligation", func(t *testing.T) {
		repo := NewLineItemRepository(newTestDB(t))
		obligationID := uuid.New()

		// Items arriving from an API payload may carry a zero obligation id.
		if err := repo.ReplaceForObligation(ctx, obligationID, []*entity.TransactionLineItem{
			{ID: "tx-1", Date: date(2024, time.June, 5), Amount: decimal.NewFromInt(10)},
		}); err != nil {
			t.Fatalf("replace failed: %v", err)
		}

		loaded, err := repo.FindByObligation(ctx, obligationID)
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}
		if len(loaded) != 1 || loaded[0].ObligationID != obligationID {
			t.Error("expected the item bound to the target obligation")
		}
	})
}
