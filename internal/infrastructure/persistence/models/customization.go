package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customization"
)

// LogoModel is the persistence model for the Logo domain entity.
type LogoModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Approval  bool      `gorm:"not null;default:false"`
	Price     float64   `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	Details   Details   `gorm:"type:text;serializer:json"`
}

// TableName returns the table name for GORM
func (LogoModel) TableName() string {
	return "logos"
}

// ToDomain converts the persistence model to a domain Logo entity.
func (m *LogoModel) ToDomain() *customization.Logo {
	return &customization.Logo{
		ID:        m.ID,
		Approval:  m.Approval,
		Price:     m.Price,
		CreatedAt: m.CreatedAt,
		Details:   m.Details,
	}
}

// LogoModelFromDomain creates a persistence model from a domain Logo.
func LogoModelFromDomain(l *customization.Logo) *LogoModel {
	return &LogoModel{
		ID:        l.ID,
		Approval:  l.Approval,
		Price:     l.Price,
		CreatedAt: l.CreatedAt.UTC(),
		Details:   l.Details,
	}
}
