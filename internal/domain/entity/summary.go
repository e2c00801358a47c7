// Package entity defines the core business entities for the domain layer.
package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SummaryEntry is the denormalized projection of one period inside a
// summary bucket.
type SummaryEntry struct {
	PeriodID     string
	ObligationID uuid.UUID
	MerchantName string
	Description  string
	Status       PeriodStatus

	NumberOfOccurrences       int
	NumberOfOccurrencesPaid   int
	NumberOfOccurrencesUnpaid int

	TotalAmountDue    decimal.Decimal
	TotalAmountPaid   decimal.Decimal
	TotalAmountUnpaid decimal.Decimal
}

// Summary is the denormalized rollup of period data for one owner and
// period type. Buckets are keyed by source period id; each bucket holds one
// entry per active period in that window.
type Summary struct {
	ID         string
	OwnerID    uuid.UUID
	OwnerType  OwnerType
	PeriodType PeriodType

	Buckets map[string][]SummaryEntry

	UpdatedAt time.Time
}

// SummaryID derives the deterministic identifier for an owner's summary of
// a given period type.
func SummaryID(ownerID uuid.UUID, ownerType OwnerType, periodType PeriodType) string {
	return fmt.Sprintf("%s_%s_%s", ownerID, ownerType, periodType)
}

// NewSummary creates an empty summary document for the given key.
func NewSummary(ownerID uuid.UUID, ownerType OwnerType, periodType PeriodType) *Summary {
	return &Summary{
		ID:         SummaryID(ownerID, ownerType, periodType),
		OwnerID:    ownerID,
		OwnerType:  ownerType,
		PeriodType: periodType,
		Buckets:    make(map[string][]SummaryEntry),
		UpdatedAt:  time.Now().UTC(),
	}
}

// SetBucket replaces the entry list for one source period. An empty entry
// list removes the bucket key entirely rather than leaving an empty array.
func (s *Summary) SetBucket(sourcePeriodID string, entries []SummaryEntry) {
	if s.Buckets == nil {
		s.Buckets = make(map[string][]SummaryEntry)
	}
	if len(entries) == 0 {
		delete(s.Buckets, sourcePeriodID)
		return
	}
	s.Buckets[sourcePeriodID] = entries
}

// EntryFromPeriod projects a period into its summary representation.
func EntryFromPeriod(p *Period) SummaryEntry {
	return SummaryEntry{
		PeriodID:                  p.ID,
		ObligationID:              p.ObligationID,
		MerchantName:              p.MerchantName,
		Description:               p.Description,
		Status:                    p.Status,
		NumberOfOccurrences:       p.NumberOfOccurrences,
		NumberOfOccurrencesPaid:   p.NumberOfOccurrencesPaid,
		NumberOfOccurrencesUnpaid: p.NumberOfOccurrencesUnpaid,
		TotalAmountDue:            p.TotalAmountDue,
		TotalAmountPaid:           p.TotalAmountPaid,
		TotalAmountUnpaid:         p.TotalAmountUnpaid,
	}
}
