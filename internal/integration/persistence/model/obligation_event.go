// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/billflow/backend/internal/domain/entity"
)

// ObligationEventModel represents the obligation_events table in the database.
type ObligationEventModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ObligationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind         string    `gorm:"type:varchar(10);not null"`

	AmountChanged bool `gorm:"not null;default:false"`
	NameChanged   bool `gorm:"not null;default:false"`
	LinkedChanged bool `gorm:"not null;default:false"`
	Deactivated   bool `gorm:"not null;default:false"`

	Status      string     `gorm:"type:varchar(12);not null;index"`
	Attempts    int        `gorm:"not null;default:0"`
	LastError   string     `gorm:"type:text"`
	CreatedAt   time.Time  `gorm:"not null;index"`
	ProcessedAt *time.Time `gorm:"type:timestamp"`
}

// TableName returns the table name for the ObligationEventModel.
func (ObligationEventModel) TableName() string {
	return "obligation_events"
}

// ToEntity converts an ObligationEventModel to a domain ObligationEvent entity.
func (m *ObligationEventModel) ToEntity() *entity.ObligationEvent {
	return &entity.ObligationEvent{
		ID:            m.ID,
		ObligationID:  m.ObligationID,
		Kind:          entity.ObligationEventKind(m.Kind),
		AmountChanged: m.AmountChanged,
		NameChanged:   m.NameChanged,
		LinkedChanged: m.LinkedChanged,
		Deactivated:   m.Deactivated,
		Status:        entity.ObligationEventStatus(m.Status),
		Attempts:      m.Attempts,
		LastError:     m.LastError,
		CreatedAt:     m.CreatedAt,
		ProcessedAt:   m.ProcessedAt,
	}
}

// ObligationEventFromEntity creates an ObligationEventModel from a domain ObligationEvent entity.
func ObligationEventFromEntity(event *entity.ObligationEvent) *ObligationEventModel {
	return &ObligationEventModel{
		ID:            event.ID,
		ObligationID:  event.ObligationID,
		Kind:          string(event.Kind),
		AmountChanged: event.AmountChanged,
		NameChanged:   event.NameChanged,
		LinkedChanged: event.LinkedChanged,
		Deactivated:   event.Deactivated,
		Status:        string(event.Status),
		Attempts:      event.Attempts,
		LastError:     event.LastError,
		CreatedAt:     event.CreatedAt,
		ProcessedAt:   event.ProcessedAt,
	}
}
