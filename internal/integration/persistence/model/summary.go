// Package model defines database models for persistence layer.
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billflow/backend/internal/domain/entity"
)

// SummaryModel represents the summaries table in the database. Buckets are a
// JSON document keyed by source period id.
type SummaryModel struct {
	ID         string    `gorm:"type:varchar(100);primaryKey"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	OwnerType  string    `gorm:"type:varchar(10);not null"`
	PeriodType string    `gorm:"type:varchar(10);not null"`

	Buckets []byte `gorm:"type:jsonb;not null"`

	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the SummaryModel.
func (SummaryModel) TableName() string {
	return "summaries"
}

// summaryEntryDoc is the JSON shape of one bucket entry.
type summaryEntryDoc struct {
	PeriodID     string    `json:"period_id"`
	ObligationID uuid.UUID `json:"obligation_id"`
	MerchantName string    `json:"merchant_name"`
	Description  string    `json:"description,omitempty"`
	Status       string    `json:"status"`

	NumberOfOccurrences       int `json:"number_of_occurrences"`
	NumberOfOccurrencesPaid   int `json:"number_of_occurrences_paid"`
	NumberOfOccurrencesUnpaid int `json:"number_of_occurrences_unpaid"`

	TotalAmountDue    decimal.Decimal `json:"total_amount_due"`
	TotalAmountPaid   decimal.Decimal `json:"total_amount_paid"`
	TotalAmountUnpaid decimal.Decimal `json:"total_amount_unpaid"`
}

// ToEntity converts a SummaryModel to a domain Summary entity.
func (m *SummaryModel) ToEntity() (*entity.Summary, error) {
	docs := make(map[string][]summaryEntryDoc)
	if len(m.Buckets) > 0 {
		if err := json.Unmarshal(m.Buckets, &docs); err != nil {
			return nil, fmt.Errorf("decode buckets for summary %s: %w", m.ID, err)
		}
	}

	buckets := make(map[string][]entity.SummaryEntry, len(docs))
	for key, entries := range docs {
		converted := make([]entity.SummaryEntry, len(entries))
		for i, d := range entries {
			converted[i] = entity.SummaryEntry{
				PeriodID:                  d.PeriodID,
				ObligationID:              d.ObligationID,
				MerchantName:              d.MerchantName,
				Description:               d.Description,
				Status:                    entity.PeriodStatus(d.Status),
				NumberOfOccurrences:       d.NumberOfOccurrences,
				NumberOfOccurrencesPaid:   d.NumberOfOccurrencesPaid,
				NumberOfOccurrencesUnpaid: d.NumberOfOccurrencesUnpaid,
				TotalAmountDue:            d.TotalAmountDue,
				TotalAmountPaid:           d.TotalAmountPaid,
				TotalAmountUnpaid:         d.TotalAmountUnpaid,
			}
		}
		buckets[key] = converted
	}

	return &entity.Summary{
		ID:         m.ID,
		OwnerID:    m.OwnerID,
		OwnerType:  entity.OwnerType(m.OwnerType),
		PeriodType: entity.PeriodType(m.PeriodType),
		Buckets:    buckets,
		UpdatedAt:  m.UpdatedAt,
	}, nil
}

// SummaryFromEntity creates a SummaryModel from a domain Summary entity.
func SummaryFromEntity(summary *entity.Summary) (*SummaryModel, error) {
	docs := make(map[string][]summaryEntryDoc, len(summary.Buckets))
	for key, entries := range summary.Buckets {
		converted := make([]summaryEntryDoc, len(entries))
		for i, e := range entries {
			converted[i] = summaryEntryDoc{
				PeriodID:                  e.PeriodID,
				ObligationID:              e.ObligationID,
				MerchantName:              e.MerchantName,
				Description:               e.Description,
				Status:                    string(e.Status),
				NumberOfOccurrences:       e.NumberOfOccurrences,
				NumberOfOccurrencesPaid:   e.NumberOfOccurrencesPaid,
				NumberOfOccurrencesUnpaid: e.NumberOfOccurrencesUnpaid,
				TotalAmountDue:            e.TotalAmountDue,
				TotalAmountPaid:           e.TotalAmountPaid,
				TotalAmountUnpaid:         e.TotalAmountUnpaid,
			}
		}
		docs[key] = converted
	}
	encoded, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("encode buckets for summary %s: %w", summary.ID, err)
	}

	return &SummaryModel{
		ID:         summary.ID,
		OwnerID:    summary.OwnerID,
		OwnerType:  string(summary.OwnerType),
		PeriodType: string(summary.PeriodType),
		Buckets:    encoded,
		UpdatedAt:  summary.UpdatedAt,
	}, nil
}
