// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RecurringStream is the provider's description of one detected recurring
// transaction stream. Amounts arrive signed (negative for outflows) and are
// normalized to positive magnitudes at ingestion.
type RecurringStream struct {
	StreamID          string
	MerchantName      string
	Description       string
	Category          string
	IsIncome          bool
	Amount            decimal.Decimal
	Cadence           string
	FirstDate         time.Time
	LastDate          time.Time
	PredictedNextDate *time.Time
	IsActive          bool
	TransactionIDs    []string
}

// RecurringProvider is the external bank-data provider supplying obligation
// metadata. It is consumed on initial ingestion only, never during recompute.
type RecurringProvider interface {
	// ListRecurringStreams fetches all recurring streams for a provider
	// access token.
	ListRecurringStreams(ctx context.Context, accessToken string) ([]RecurringStream, error)
}
