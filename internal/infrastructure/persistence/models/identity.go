package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
)

// AdminModel is the persistence model for the Admin domain entity.
type AdminModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(200);not null"`
	Email        string    `gorm:"type:varchar(320);not null;uniqueIndex:uq_admin_email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null"`
	Fingerprint  *string   `gorm:"type:varchar(255)"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AdminModel) TableName() string {
	return "admin"
}

// ToDomain converts the persistence model to a domain Admin entity.
func (m *AdminModel) ToDomain() *identity.Admin {
	return &identity.Admin{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Fingerprint:  m.Fingerprint,
		CreatedAt:    m.CreatedAt,
	}
}

// AdminModelFromDomain creates a persistence model from a domain Admin.
func AdminModelFromDomain(a *identity.Admin) *AdminModel {
	return &AdminModel{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Fingerprint:  a.Fingerprint,
		CreatedAt:    a.CreatedAt.UTC(),
	}
}
