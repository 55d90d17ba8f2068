// Package customization holds custom logo submissions awaiting approval.
package customization

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Logo is a customization request created by the external submission flow
type Logo struct {
	ID        uuid.UUID
	Approval  bool
	Price     float64
	CreatedAt time.Time
	Details   map[string]any
}

// Approve marks the logo as approved. Approval is never reversed.
func (l *Logo) Approve() {
	l.Approval = true
}

// LogoRepository defines the interface for logo persistence
type LogoRepository interface {
	FindAll(ctx context.Context) ([]*Logo, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Logo, error)

	// SetApproval updates the approval flag, returning a not-found error when nothing matched
	SetApproval(ctx context.Context, id uuid.UUID, approved bool) error
}
