// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billflow/backend/internal/domain/entity"
)

// LineItemModel represents the obligation_line_items table in the database:
// the ledger transactions linked to obligations, mirrored here for matching.
type LineItemModel struct {
	ID           string    `gorm:"type:varchar(64);primaryKey"`
	ObligationID uuid.UUID `gorm:"type:uuid;not null;index"`

	Date        time.Time       `gorm:"type:date;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Description string          `gorm:"type:varchar(255)"`
	Pending     bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for the LineItemModel.
func (LineItemModel) TableName() string {
	return "obligation_line_items"
}

// ToEntity converts a LineItemModel to a domain TransactionLineItem entity.
func (m *LineItemModel) ToEntity() *entity.TransactionLineItem {
	return &entity.TransactionLineItem{
		ID:           m.ID,
		ObligationID: m.ObligationID,
		Date:         m.Date,
		Amount:       m.Amount,
		Description:  m.Description,
		Pending:      m.Pending,
	}
}

// LineItemFromEntity creates a LineItemModel from a domain TransactionLineItem entity.
func LineItemFromEntity(item *entity.TransactionLineItem) *LineItemModel {
	return &LineItemModel{
		ID:           item.ID,
		ObligationID: item.ObligationID,
		Date:         item.Date,
		Amount:       item.Amount,
		Description:  item.Description,
		Pending:      item.Pending,
	}
}
