package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
)

// RegisterRequest represents an admin registration request
type RegisterRequest struct {
	Name        string  `json:"name" binding:"max=200"`
	Email       string  `json:"email" binding:"omitempty,email,max=320"`
	Password    string  `json:"password" binding:"max=72"`
	Fingerprint *string `json:"fingerprint" binding:"omitempty,max=255"`
}

// LoginRequest represents an email/password login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginWithIDRequest represents a trust-token login request carrying a previously issued admin ID
type LoginWithIDRequest struct {
	ID string `json:"id"`
}

// AdminIdentity is returned on successful authentication
type AdminIdentity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// AdminResponse represents an admin in list responses. The password hash is never included.
type AdminResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Fingerprint *string   `json:"fingerprint"`
	CreatedAt   time.Time `json:"createdAt"`
}

// toAdminIdentity converts a domain Admin to an AdminIdentity
func toAdminIdentity(a *identity.Admin) *AdminIdentity {
	return &AdminIdentity{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
	}
}

// ToAdminResponse converts a domain Admin to an AdminResponse
func ToAdminResponse(a *identity.Admin) AdminResponse {
	return AdminResponse{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Fingerprint: a.Fingerprint,
		CreatedAt:   a.CreatedAt,
	}
}
