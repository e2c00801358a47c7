// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/billflow/backend/internal/domain/entity"
)

// SourcePeriodModel represents the source_periods table in the database. The
// table is populated by the external period-calendar subsystem; this side
// only reads it.
type SourcePeriodModel struct {
	ID        string    `gorm:"type:varchar(50);primaryKey"`
	Type      string    `gorm:"type:varchar(10);not null;index"`
	StartDate time.Time `gorm:"type:date;not null;index"`
	EndDate   time.Time `gorm:"type:date;not null;index"`
	Year      int       `gorm:"not null"`
}

// TableName returns the table name for the SourcePeriodModel.
func (SourcePeriodModel) TableName() string {
	return "source_periods"
}

// ToEntity converts a SourcePeriodModel to a domain SourcePeriod entity.
func (m *SourcePeriodModel) ToEntity() *entity.SourcePeriod {
	return &entity.SourcePeriod{
		ID:        m.ID,
		Type:      entity.PeriodType(m.Type),
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Year:      m.Year,
	}
}

// SourcePeriodFromEntity creates a SourcePeriodModel from a domain SourcePeriod entity.
func SourcePeriodFromEntity(sourcePeriod *entity.SourcePeriod) *SourcePeriodModel {
	return &SourcePeriodModel{
		ID:        sourcePeriod.ID,
		Type:      string(sourcePeriod.Type),
		StartDate: sourcePeriod.StartDate,
		EndDate:   sourcePeriod.EndDate,
		Year:      sourcePeriod.Year,
	}
}
