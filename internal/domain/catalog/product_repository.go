package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindAll returns every product, newest first
	FindAll(ctx context.Context) ([]*Product, error)

	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Create inserts a new product
	Create(ctx context.Context, product *Product) error

	// Update replaces an existing product
	Update(ctx context.Context, product *Product) error

	// Delete removes a product by ID, returning a not-found error when nothing matched
	Delete(ctx context.Context, id uuid.UUID) error
}
