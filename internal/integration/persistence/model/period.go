// Package model defines database models for persistence layer.
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billflow/backend/internal/domain/entity"
	"github.com/billflow/backend/internal/domain/valueobject"
)

// PeriodModel represents the periods table in the database. The occurrence
// list is embedded as a JSON document: occurrences only ever exist as part of
// their parent period and are rewritten wholesale on every recompute.
type PeriodModel struct {
	ID           string    `gorm:"type:varchar(100);primaryKey"`
	ObligationID uuid.UUID `gorm:"type:uuid;not null;index"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index:idx_periods_bucket"`
	OwnerType    string    `gorm:"type:varchar(10);not null;index:idx_periods_bucket"`

	SourcePeriodID string `gorm:"type:varchar(50);not null;index:idx_periods_bucket"`
	PeriodType     string `gorm:"type:varchar(10);not null;index:idx_periods_bucket"`

	MerchantName string `gorm:"type:varchar(255);not null"`
	Description  string `gorm:"type:text"`

	Cadence             string          `gorm:"type:varchar(20);not null"`
	AmountPerOccurrence decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	ProratedAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DueInPeriod         bool            `gorm:"not null"`

	Occurrences []byte `gorm:"type:jsonb;not null"`

	NumberOfOccurrences       int `gorm:"not null"`
	NumberOfOccurrencesPaid   int `gorm:"not null"`
	NumberOfOccurrencesUnpaid int `gorm:"not null"`

	TotalAmountDue    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalAmountPaid   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalAmountUnpaid decimal.Decimal `gorm:"type:decimal(15,2);not null"`

	Status string `gorm:"type:varchar(20);not null"`
	State  string `gorm:"type:varchar(10);not null;index:idx_periods_bucket"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the PeriodModel.
func (PeriodModel) TableName() string {
	return "periods"
}

// occurrenceDoc is the JSON shape of one embedded occurrence.
type occurrenceDoc struct {
	ID            string          `json:"id"`
	Index         int             `json:"index"`
	DueDate       time.Time       `json:"due_date"`
	DrawDate      time.Time       `json:"draw_date"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	Status        string          `json:"status"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentType   string          `json:"payment_type,omitempty"`
}

// ToEntity converts a PeriodModel to a domain Period entity.
func (m *PeriodModel) ToEntity() (*entity.Period, error) {
	var docs []occurrenceDoc
	if len(m.Occurrences) > 0 {
		if err := json.Unmarshal(m.Occurrences, &docs); err != nil {
			return nil, fmt.Errorf("decode occurrences for period %s: %w", m.ID, err)
		}
	}

	occurrences := make([]entity.Occurrence, len(docs))
	for i, d := range docs {
		occurrences[i] = entity.Occurrence{
			ID:            d.ID,
			Index:         d.Index,
			DueDate:       d.DueDate,
			DrawDate:      d.DrawDate,
			AmountDue:     d.AmountDue,
			Status:        entity.OccurrenceStatus(d.Status),
			TransactionID: d.TransactionID,
			AmountPaid:    d.AmountPaid,
			PaymentType:   valueobject.PaymentType(d.PaymentType),
		}
	}

	return &entity.Period{
		ID:                        m.ID,
		ObligationID:              m.ObligationID,
		OwnerID:                   m.OwnerID,
		OwnerType:                 entity.OwnerType(m.OwnerType),
		SourcePeriodID:            m.SourcePeriodID,
		PeriodType:                entity.PeriodType(m.PeriodType),
		MerchantName:              m.MerchantName,
		Description:               m.Description,
		Cadence:                   valueobject.Cadence(m.Cadence),
		AmountPerOccurrence:       m.AmountPerOccurrence,
		ProratedAmount:            m.ProratedAmount,
		DueInPeriod:               m.DueInPeriod,
		Occurrences:               occurrences,
		NumberOfOccurrences:       m.NumberOfOccurrences,
		NumberOfOccurrencesPaid:   m.NumberOfOccurrencesPaid,
		NumberOfOccurrencesUnpaid: m.NumberOfOccurrencesUnpaid,
		TotalAmountDue:            m.TotalAmountDue,
		TotalAmountPaid:           m.TotalAmountPaid,
		TotalAmountUnpaid:         m.TotalAmountUnpaid,
		Status:                    entity.PeriodStatus(m.Status),
		State:                     entity.PeriodState(m.State),
		CreatedAt:                 m.CreatedAt,
		UpdatedAt:                 m.UpdatedAt,
	}, nil
}

// PeriodFromEntity creates a PeriodModel from a domain Period entity.
func PeriodFromEntity(period *entity.Period) (*PeriodModel, error) {
	docs := make([]occurrenceDoc, len(period.Occurrences))
	for i, o := range period.Occurrences {
		docs[i] = occurrenceDoc{
			ID:            o.ID,
			Index:         o.Index,
			DueDate:       o.DueDate,
			DrawDate:      o.DrawDate,
			AmountDue:     o.AmountDue,
			Status:        string(o.Status),
			TransactionID: o.TransactionID,
			AmountPaid:    o.AmountPaid,
			PaymentType:   string(o.PaymentType),
		}
	}
	encoded, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("encode occurrences for period %s: %w", period.ID, err)
	}

	return &PeriodModel{
		ID:                        period.ID,
		ObligationID:              period.ObligationID,
		OwnerID:                   period.OwnerID,
		OwnerType:                 string(period.OwnerType),
		SourcePeriodID:            period.SourcePeriodID,
		PeriodType:                string(period.PeriodType),
		MerchantName:              period.MerchantName,
		Description:               period.Description,
		Cadence:                   string(period.Cadence),
		AmountPerOccurrence:       period.AmountPerOccurrence,
		ProratedAmount:            period.ProratedAmount,
		DueInPeriod:               period.DueInPeriod,
		Occurrences:               encoded,
		NumberOfOccurrences:       period.NumberOfOccurrences,
		NumberOfOccurrencesPaid:   period.NumberOfOccurrencesPaid,
		NumberOfOccurrencesUnpaid: period.NumberOfOccurrencesUnpaid,
		TotalAmountDue:            period.TotalAmountDue,
		TotalAmountPaid:           period.TotalAmountPaid,
		TotalAmountUnpaid:         period.TotalAmountUnpaid,
		Status:                    string(period.Status),
		State:                     string(period.State),
		CreatedAt:                 period.CreatedAt,
		UpdatedAt:                 period.UpdatedAt,
	}, nil
}
