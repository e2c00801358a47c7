// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billflow/backend/internal/domain/valueobject"
)

// OwnerType represents the type of owner for an obligation.
type OwnerType string

const (
	OwnerTypeUser  OwnerType = "user"
	OwnerTypeGroup OwnerType = "group"
)

// ObligationType distinguishes bills from income streams.
type ObligationType string

const (
	ObligationTypeBill   ObligationType = "bill"
	ObligationTypeIncome ObligationType = "income"
)

// ObligationStatus represents the lifecycle state of an obligation.
// Obligations are soft-deactivated, never hard-deleted while history exists.
type ObligationStatus string

const (
	ObligationStatusActive   ObligationStatus = "active"
	ObligationStatusInactive ObligationStatus = "inactive"
)

// Obligation represents a recurring bill or income stream definition.
type Obligation struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	OwnerType OwnerType

	// ProviderStreamID is the external provider's recurring-stream identifier.
	// Empty for manually entered obligations.
	ProviderStreamID string

	MerchantName string
	Description  string
	Category     string
	Type         ObligationType

	// Amount is the per-occurrence magnitude, always positive regardless of
	// whether the obligation is a bill or an income stream.
	Amount  decimal.Decimal
	Cadence valueobject.Cadence

	// FirstDate is the first known occurrence; LastDate the most recent one.
	// PredictedNextDate, when present, is the provider's forecast for the
	// next occurrence and is the preferred scheduling anchor.
	FirstDate         time.Time
	LastDate          time.Time
	PredictedNextDate *time.Time

	Status               ObligationStatus
	LinkedTransactionIDs []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewObligation creates a new Obligation entity with a signed-normalized
// amount and an active status.
func NewObligation(
	ownerID uuid.UUID,
	ownerType OwnerType,
	merchantName string,
	description string,
	obligationType ObligationType,
	amount decimal.Decimal,
	cadence valueobject.Cadence,
	firstDate time.Time,
) *Obligation {
	now := time.Now().UTC()

	return &Obligation{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		OwnerType:    ownerType,
		MerchantName: merchantName,
		Description:  description,
		Type:         obligationType,
		Amount:       amount.Abs(),
		Cadence:      cadence,
		FirstDate:    firstDate,
		LastDate:     firstDate,
		Status:       ObligationStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsActive reports whether the obligation still generates periods.
func (o *Obligation) IsActive() bool {
	return o.Status == ObligationStatusActive
}

// AnchorDate returns the scheduling anchor: the provider-predicted next date
// when available, else the last known occurrence, else the first occurrence.
// The second return is false when no anchor exists at all.
func (o *Obligation) AnchorDate() (time.Time, bool) {
	if o.PredictedNextDate != nil && !o.PredictedNextDate.IsZero() {
		return *o.PredictedNextDate, true
	}
	if !o.LastDate.IsZero() {
		return o.LastDate, true
	}
	if !o.FirstDate.IsZero() {
		return o.FirstDate, true
	}
	return time.Time{}, false
}

// Deactivate soft-deactivates the obligation. Existing periods remain
// queryable; no new periods are generated.
func (o *Obligation) Deactivate() {
	o.Status = ObligationStatusInactive
	o.UpdatedAt = time.Now().UTC()
}
