// Package entity defines the core business entities for the domain layer.
package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billflow/backend/internal/domain/valueobject"
)

// OccurrenceStatus represents the payment state of a single occurrence.
type OccurrenceStatus string

const (
	OccurrenceStatusUnpaid OccurrenceStatus = "unpaid"
	OccurrenceStatusPaid   OccurrenceStatus = "paid"
)

// Occurrence is one predicted due event of an obligation inside a period.
// Occurrences are regenerated every time their parent period is recomputed
// and persist only as the parent's embedded ordered list.
type Occurrence struct {
	// ID is deterministic: "<sourcePeriodID>-<index>", so repeated
	// computation of the same period is reproducible and diffable.
	ID    string
	Index int

	DueDate time.Time
	// DrawDate is the due date shifted off weekends.
	DrawDate  time.Time
	AmountDue decimal.Decimal

	Status        OccurrenceStatus
	TransactionID *string
	AmountPaid    decimal.Decimal
	PaymentType   valueobject.PaymentType
}

// OccurrenceID derives the deterministic identifier for the occurrence at
// the given index within a source period.
func OccurrenceID(sourcePeriodID string, index int) string {
	return fmt.Sprintf("%s-%d", sourcePeriodID, index)
}

// ResetPayment clears all payment fields back to unpaid. The matcher calls
// this on every occurrence before rebuilding assignments from scratch.
func (o *Occurrence) ResetPayment() {
	o.Status = OccurrenceStatusUnpaid
	o.TransactionID = nil
	o.AmountPaid = decimal.Zero
	o.PaymentType = ""
}

// IsPaid reports whether a transaction has been matched to this occurrence.
func (o *Occurrence) IsPaid() bool {
	return o.Status == OccurrenceStatusPaid
}

// PeriodStatus is the payment status of a period, derived from its
// occurrence states.
type PeriodStatus string

const (
	PeriodStatusUpcoming      PeriodStatus = "upcoming"
	PeriodStatusPartiallyPaid PeriodStatus = "partially_paid"
	PeriodStatusPaid          PeriodStatus = "paid"
)

// PeriodState is the lifecycle state of a period record. Periods are
// soft-deactivated alongside their obligation, never hard-deleted.
type PeriodState string

const (
	PeriodStateActive   PeriodState = "active"
	PeriodStateInactive PeriodState = "inactive"
)

// Period is the persisted join of one obligation and one source period: the
// occurrence list plus aggregated totals and denormalized display metadata.
type Period struct {
	// ID is deterministic: "<obligationID>_<sourcePeriodID>".
	ID           string
	ObligationID uuid.UUID
	OwnerID      uuid.UUID
	OwnerType    OwnerType

	SourcePeriodID string
	PeriodType     PeriodType

	// Denormalized from the obligation for display.
	MerchantName string
	Description  string

	Cadence             valueobject.Cadence
	AmountPerOccurrence decimal.Decimal

	// ProratedAmount is the accrual for this window (spec §4.2); DueInPeriod
	// flags whether the cadence-tracking due occurrence falls inside it.
	ProratedAmount decimal.Decimal
	DueInPeriod    bool

	Occurrences []Occurrence

	NumberOfOccurrences       int
	NumberOfOccurrencesPaid   int
	NumberOfOccurrencesUnpaid int

	TotalAmountDue    decimal.Decimal
	TotalAmountPaid   decimal.Decimal
	TotalAmountUnpaid decimal.Decimal

	Status PeriodStatus
	State  PeriodState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PeriodID derives the deterministic identifier for the period joining an
// obligation to a source period.
func PeriodID(obligationID uuid.UUID, sourcePeriodID string) string {
	return fmt.Sprintf("%s_%s", obligationID, sourcePeriodID)
}

// RecalculateTotals rebuilds the aggregate fields from the occurrence list.
// Invariants: TotalAmountDue == AmountPerOccurrence x NumberOfOccurrences,
// TotalAmountPaid == sum of occurrence AmountPaid.
func (p *Period) RecalculateTotals() {
	p.NumberOfOccurrences = len(p.Occurrences)
	p.NumberOfOccurrencesPaid = 0
	p.NumberOfOccurrencesUnpaid = 0

	paid := decimal.Zero
	for i := range p.Occurrences {
		if p.Occurrences[i].IsPaid() {
			p.NumberOfOccurrencesPaid++
			paid = paid.Add(p.Occurrences[i].AmountPaid)
		} else {
			p.NumberOfOccurrencesUnpaid++
		}
	}

	p.TotalAmountDue = p.AmountPerOccurrence.Mul(decimal.NewFromInt(int64(p.NumberOfOccurrences))).Round(2)
	p.TotalAmountPaid = paid.Round(2)
	p.TotalAmountUnpaid = p.TotalAmountDue.Sub(p.TotalAmountPaid).Round(2)

	switch {
	case p.NumberOfOccurrences > 0 && p.NumberOfOccurrencesPaid == p.NumberOfOccurrences:
		p.Status = PeriodStatusPaid
	case p.NumberOfOccurrencesPaid > 0:
		p.Status = PeriodStatusPartiallyPaid
	default:
		p.Status = PeriodStatusUpcoming
	}
}

// HasPaidOccurrence reports whether any occurrence is settled. Periods with
// settled history are frozen against amount recomputation.
func (p *Period) HasPaidOccurrence() bool {
	for i := range p.Occurrences {
		if p.Occurrences[i].IsPaid() {
			return true
		}
	}
	return false
}

// Equal performs a structural comparison of all recompute-relevant state,
// ignoring timestamps. A write is skipped when the recomputed period equals
// the persisted one, which is what breaks cascading trigger loops.
func (p *Period) Equal(other *Period) bool {
	if other == nil {
		return false
	}
	if p.ID != other.ID ||
		p.ObligationID != other.ObligationID ||
		p.SourcePeriodID != other.SourcePeriodID ||
		p.PeriodType != other.PeriodType ||
		p.MerchantName != other.MerchantName ||
		p.Description != other.Description ||
		p.Cadence != other.Cadence ||
		p.DueInPeriod != other.DueInPeriod ||
		p.Status != other.Status ||
		p.State != other.State ||
		p.NumberOfOccurrences != other.NumberOfOccurrences ||
		p.NumberOfOccurrencesPaid != other.NumberOfOccurrencesPaid ||
		p.NumberOfOccurrencesUnpaid != other.NumberOfOccurrencesUnpaid {
		return false
	}
	if !p.AmountPerOccurrence.Equal(other.AmountPerOccurrence) ||
		!p.ProratedAmount.Equal(other.ProratedAmount) ||
		!p.TotalAmountDue.Equal(other.TotalAmountDue) ||
		!p.TotalAmountPaid.Equal(other.TotalAmountPaid) ||
		!p.TotalAmountUnpaid.Equal(other.TotalAmountUnpaid) {
		return false
	}
	if len(p.Occurrences) != len(other.Occurrences) {
		return false
	}
	for i := range p.Occurrences {
		if !p.Occurrences[i].equal(&other.Occurrences[i]) {
			return false
		}
	}
	return true
}

func (o *Occurrence) equal(other *Occurrence) bool {
	if o.ID != other.ID ||
		o.Index != other.Index ||
		!o.DueDate.Equal(other.DueDate) ||
		!o.DrawDate.Equal(other.DrawDate) ||
		o.Status != other.Status ||
		o.PaymentType != other.PaymentType {
		return false
	}
	if !o.AmountDue.Equal(other.AmountDue) || !o.AmountPaid.Equal(other.AmountPaid) {
		return false
	}
	if (o.TransactionID == nil) != (other.TransactionID == nil) {
		return false
	}
	if o.TransactionID != nil && *o.TransactionID != *other.TransactionID {
		return false
	}
	return true
}
