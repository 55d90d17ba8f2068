package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity provides common fields for updatable entities
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ParseID parses a path or body identifier. A malformed value is a validation error
// so callers can reject it before reaching the store.
func ParseID(raw, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, NewValidationError("Invalid " + label + " ID format")
	}
	return id, nil
}
