// Package matching contains the transaction-to-occurrence matcher.
package matching

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/domain/entity"
	"github.com/billflow/backend/internal/domain/valueobject"
)

// MatchTransactionsInput represents the input for matching.
type MatchTransactionsInput struct {
	PeriodID string

	// Period may be supplied by callers that already hold the record; when
	// nil it is loaded from the repository.
	Period *entity.Period
}

// MatchTransactionsOutput represents the matching result.
type MatchTransactionsOutput struct {
	Matched   int
	Unmatched int

	// Written is false when the rebuilt state was structurally identical to
	// the persisted state and the write was skipped. Skipping the write is
	// what keeps re-entrant trigger cascades from looping.
	Written bool

	Period *entity.Period
}

// MatchTransactionsUseCase assigns recorded transaction line items to the
// closest unmatched occurrence within a tolerance window.
//
// Matching is idempotent and total: every invocation clears all occurrence
// payment fields and rebuilds assignments from the current transaction set.
// Incremental patching would drift when transactions are removed or re-dated.
type MatchTransactionsUseCase struct {
	periodRepo   adapter.PeriodRepository
	lineItemRepo adapter.LineItemRepository
	config       valueobject.MatchingConfig
}

// NewMatchTransactionsUseCase creates a new MatchTransactionsUseCase instance.
func NewMatchTransactionsUseCase(
	periodRepo adapter.PeriodRepository,
	lineItemRepo adapter.LineItemRepository,
	config valueobject.MatchingConfig,
) *MatchTransactionsUseCase {
	return &MatchTransactionsUseCase{
		periodRepo:   periodRepo,
		lineItemRepo: lineItemRepo,
		config:       config,
	}
}

// Execute rebuilds the period's payment state from the obligation's current
// line item set and persists it unless nothing changed.
func (uc *MatchTransactionsUseCase) Execute(ctx context.Context, input MatchTransactionsInput) (*MatchTransactionsOutput, error) {
	period := input.Period
	if period == nil {
		loaded, err := uc.periodRepo.FindByID(ctx, input.PeriodID)
		if err != nil {
			return nil, fmt.Errorf("load period %s: %w", input.PeriodID, err)
		}
		period = loaded
	}

	items, err := uc.lineItemRepo.FindByObligation(ctx, period.ObligationID)
	if err != nil {
		return nil, fmt.Errorf("load line items for obligation %s: %w", period.ObligationID, err)
	}

	previous := clonePeriod(period)

	for i := range period.Occurrences {
		period.Occurrences[i].ResetPayment()
	}

	matched, unmatched := uc.assign(period, items)
	period.RecalculateTotals()

	output := &MatchTransactionsOutput{
		Matched:   matched,
		Unmatched: unmatched,
		Period:    period,
	}

	if period.Equal(previous) {
		slog.Debug("Match produced no changes, skipping write", "period_id", period.ID)
		return output, nil
	}

	if err := uc.periodRepo.Save(ctx, period); err != nil {
		return nil, fmt.Errorf("save period %s: %w", period.ID, err)
	}
	output.Written = true

	slog.Info("Matched transactions to occurrences",
		"period_id", period.ID,
		"matched", matched,
		"unmatched", unmatched,
		"occurrences_paid", period.NumberOfOccurrencesPaid,
	)
	return output, nil
}

// assign walks the line items in date order and pairs each with the closest
// unmatched occurrence by absolute day-distance. Ties prefer the
// earlier-indexed occurrence; items beyond the tolerance stay unmatched and
// are logged, never fatal.
func (uc *MatchTransactionsUseCase) assign(period *entity.Period, items []*entity.TransactionLineItem) (matched, unmatched int) {
	ordered := make([]*entity.TransactionLineItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	for _, item := range ordered {
		best := -1
		bestDistance := 0
		for i := range period.Occurrences {
			if period.Occurrences[i].IsPaid() {
				continue
			}
			distance := valueobject.DayDistance(item.Date, period.Occurrences[i].DueDate)
			if best == -1 || distance < bestDistance {
				best = i
				bestDistance = distance
			}
		}

		if best == -1 || bestDistance > uc.config.DateToleranceDays {
			unmatched++
			slog.Info("Line item did not match any occurrence",
				"period_id", period.ID,
				"transaction_id", item.ID,
				"transaction_date", item.Date.Format("2006-01-02"),
			)
			continue
		}

		occ := &period.Occurrences[best]
		txID := item.ID
		occ.Status = entity.OccurrenceStatusPaid
		occ.TransactionID = &txID
		occ.AmountPaid = item.Amount
		occ.PaymentType = uc.config.ClassifyPayment(item.Amount, occ.AmountDue, item.Date, occ.DueDate)
		matched++
	}
	return matched, unmatched
}

// clonePeriod snapshots a period, including its occurrence list, so the
// rebuilt state can be structurally compared against what was persisted.
func clonePeriod(p *entity.Period) *entity.Period {
	snapshot := *p
	snapshot.Occurrences = make([]entity.Occurrence, len(p.Occurrences))
	copy(snapshot.Occurrences, p.Occurrences)
	for i := range snapshot.Occurrences {
		if p.Occurrences[i].TransactionID != nil {
			id := *p.Occurrences[i].TransactionID
			snapshot.Occurrences[i].TransactionID = &id
		}
	}
	return &snapshot
}
