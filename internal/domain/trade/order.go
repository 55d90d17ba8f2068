package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderStatusComplete is the terminal order status
const OrderStatusComplete = "complete"

// Order is a customer order created by the external ordering flow.
// This API only reads orders and moves them to the complete status.
type Order struct {
	ID          uuid.UUID
	Status      string
	TotalAmount float64
	CreatedAt   time.Time
	Details     map[string]any // free-form remainder of the order document
}

// Complete sets the terminal status. Calling it on a complete order is a no-op.
func (o *Order) Complete() {
	o.Status = OrderStatusComplete
}

// IsComplete reports whether the order reached the terminal status
func (o *Order) IsComplete() bool {
	return o.Status == OrderStatusComplete
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindAll returns every order, newest first
	FindAll(ctx context.Context) ([]*Order, error)

	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// UpdateStatus sets the status of one order, returning a not-found error when nothing matched
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}
