package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 10
	// MaxPasswordBytes is bcrypt's input limit, counted in bytes not characters
	MaxPasswordBytes = 72
)

// Admin represents a dashboard administrator
type Admin struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Fingerprint  *string // device fingerprint captured at registration, nil when not supplied
	CreatedAt    time.Time
}

// NewAdmin creates a new admin with a hashed password
func NewAdmin(name, email, password string, fingerprint *string) (*Admin, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, shared.NewValidationError("Name, email and password are required")
	}

	if len(password) > MaxPasswordBytes {
		return nil, shared.NewValidationError(fmt.Sprintf("Password must be at most %d bytes", MaxPasswordBytes))
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var fp *string
	if fingerprint != nil && strings.TrimSpace(*fingerprint) != "" {
		v := strings.TrimSpace(*fingerprint)
		fp = &v
	}

	return &Admin{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Fingerprint:  fp,
		CreatedAt:    time.Now(),
	}, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (a *Admin) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	return err == nil
}

// NormalizeEmail lower-cases and trims an email address for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
