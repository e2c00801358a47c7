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

// ObligationModel represents the obligations table in the database.
type ObligationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	OwnerType string    `gorm:"type:varchar(10);not null"`

	ProviderStreamID string `gorm:"type:varchar(64);index"`

	MerchantName string `gorm:"type:varchar(255);not null"`
	Description  string `gorm:"type:text"`
	Category     string `gorm:"type:varchar(100)"`
	Type         string `gorm:"type:varchar(10);not null"`

	Amount  decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Cadence string          `gorm:"type:varchar(20);not null"`

	FirstDate         time.Time  `gorm:"type:date;not null"`
	LastDate          time.Time  `gorm:"type:date;not null"`
	PredictedNextDate *time.Time `gorm:"type:date"`

	Status string `gorm:"type:varchar(10);not null;index"`

	// LinkedTransactionIDs is the JSON-encoded ledger transaction id list.
	LinkedTransactionIDs []byte `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the ObligationModel.
func (ObligationModel) TableName() string {
	return "obligations"
}

// ToEntity converts an ObligationModel to a domain Obligation entity.
func (m *ObligationModel) ToEntity() (*entity.Obligation, error) {
	var linked []string
	if len(m.LinkedTransactionIDs) > 0 {
		if err := json.Unmarshal(m.LinkedTransactionIDs, &linked); err != nil {
			return nil, fmt.Errorf("decode linked transaction ids: %w", err)
		}
	}

	return &entity.Obligation{
		ID:                   m.ID,
		OwnerID:              m.OwnerID,
		OwnerType:            entity.OwnerType(m.OwnerType),
		ProviderStreamID:     m.ProviderStreamID,
		MerchantName:         m.MerchantName,
		Description:          m.Description,
		Category:             m.Category,
		Type:                 entity.ObligationType(m.Type),
		Amount:               m.Amount,
		Cadence:              valueobject.Cadence(m.Cadence),
		FirstDate:            m.FirstDate,
		LastDate:             m.LastDate,
		PredictedNextDate:    m.PredictedNextDate,
		Status:               entity.ObligationStatus(m.Status),
		LinkedTransactionIDs: linked,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}, nil
}

// ObligationFromEntity creates an ObligationModel from a domain Obligation entity.
func ObligationFromEntity(obligation *entity.Obligation) (*ObligationModel, error) {
	linked, err := json.Marshal(obligation.LinkedTransactionIDs)
	if err != nil {
		return nil, fmt.Errorf("encode linked transaction ids: %w", err)
	}

	return &ObligationModel{
		ID:                   obligation.ID,
		OwnerID:              obligation.OwnerID,
		OwnerType:            string(obligation.OwnerType),
		ProviderStreamID:     obligation.ProviderStreamID,
		MerchantName:         obligation.MerchantName,
		Description:          obligation.Description,
		Category:             obligation.Category,
		Type:                 string(obligation.Type),
		Amount:               obligation.Amount,
		Cadence:              string(obligation.Cadence),
		FirstDate:            obligation.FirstDate,
		LastDate:             obligation.LastDate,
		PredictedNextDate:    obligation.PredictedNextDate,
		Status:               string(obligation.Status),
		LinkedTransactionIDs: linked,
		CreatedAt:            obligation.CreatedAt,
		UpdatedAt:            obligation.UpdatedAt,
	}, nil
}
