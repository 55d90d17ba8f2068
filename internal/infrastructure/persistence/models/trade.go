package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/trade"
)

// OrderModel is the persistence model for the Order domain entity.
type OrderModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status      string    `gorm:"type:varchar(50);not null;default:'pending'"`
	TotalAmount float64   `gorm:"column:total_amount;not null;default:0"`
	CreatedAt   time.Time `gorm:"not null;index"`
	Details     Details   `gorm:"type:text;serializer:json"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *trade.Order {
	return &trade.Order{
		ID:          m.ID,
		Status:      m.Status,
		TotalAmount: m.TotalAmount,
		CreatedAt:   m.CreatedAt,
		Details:     m.Details,
	}
}

// OrderModelFromDomain creates a persistence model from a domain Order.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	return &OrderModel{
		ID:          o.ID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt.UTC(),
		Details:     o.Details,
	}
}
