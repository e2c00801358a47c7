// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionLineItem is one recorded money movement known to belong to an
// obligation, supplied by the transaction ledger and matched against
// predicted occurrences.
type TransactionLineItem struct {
	// ID is the ledger's transaction identifier.
	ID           string
	ObligationID uuid.UUID

	Date time.Time
	// Amount is the movement magnitude, sign-normalized to positive.
	Amount      decimal.Decimal
	Description string
	Pending     bool
}
