package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidAdminID is returned by LoginWithID for malformed or unknown IDs
var ErrInvalidAdminID = shared.NewDomainError(shared.CodeInvalidCredentials, "Invalid admin ID")

// dummyHash is compared against when no admin matches, so unknown emails cost the same as wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("storefront-dummy-password"), bcrypt.DefaultCost)

// AuthService handles admin registration and authentication
type AuthService struct {
	adminRepo identity.AdminRepository
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(adminRepo identity.AdminRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		logger:    logger,
	}
}

// Register creates a new admin account
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	admin, err := identity.NewAdmin(req.Name, req.Email, req.Password, req.Fingerprint)
	if err != nil {
		return err
	}

	exists, err := s.adminRepo.ExistsByEmail(ctx, admin.Email)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewConflictError("Email already registered")
	}

	// The unique index still rejects a concurrent duplicate that passed the check above.
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("Admin registered",
		zap.String("admin_id", admin.ID.String()),
		zap.Bool("fingerprint", admin.Fingerprint != nil),
	)
	return nil
}

// Login authenticates an admin by email and password
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AdminIdentity, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, shared.NewValidationError("Email and password are required")
	}

	admin, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			s.logger.Info("Login failed", zap.String("reason", "unknown_email"))
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}

	if !admin.VerifyPassword(req.Password) {
		s.logger.Info("Login failed",
			zap.String("reason", "password_mismatch"),
			zap.String("admin_id", admin.ID.String()),
		)
		return nil, shared.ErrInvalidCredentials
	}

	return toAdminIdentity(admin), nil
}

// LoginWithID re-authenticates an admin from a previously issued ID
func (s *AuthService) LoginWithID(ctx context.Context, req LoginWithIDRequest) (*AdminIdentity, error) {
	raw := strings.TrimSpace(req.ID)
	if raw == "" {
		return nil, shared.NewValidationError("ID is required")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, ErrInvalidAdminID
	}

	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidAdminID
		}
		return nil, err
	}

	return toAdminIdentity(admin), nil
}

// ListAdmins returns every admin without password hashes
func (s *AuthService) ListAdmins(ctx context.Context) ([]AdminResponse, error) {
	admins, err := s.adminRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]AdminResponse, len(admins))
	for i, a := range admins {
		responses[i] = ToAdminResponse(a)
	}
	return responses, nil
}
