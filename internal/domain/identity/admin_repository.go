package identity

import (
	"context"

	"github.com/google/uuid"
)

// AdminRepository defines the interface for admin persistence
type AdminRepository interface {
	// Create inserts a new admin. A duplicate email yields a conflict error.
	Create(ctx context.Context, admin *Admin) error

	// FindByID finds an admin by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Admin, error)

	// FindByEmail finds an admin by normalized email
	FindByEmail(ctx context.Context, email string) (*Admin, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindAll returns every admin ordered by creation time
	FindAll(ctx context.Context) ([]*Admin, error)
}
