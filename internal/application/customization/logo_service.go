package customization

import (
	"context"

	"github.com/storefront/backend/internal/domain/customization"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LogoService handles the logo approval workflow
type LogoService struct {
	logoRepo customization.LogoRepository
	logger   *zap.Logger
}

// NewLogoService creates a new LogoService
func NewLogoService(logoRepo customization.LogoRepository, logger *zap.Logger) *LogoService {
	return &LogoService{
		logoRepo: logoRepo,
		logger:   logger,
	}
}

// ListLogos returns every logo submission
func (s *LogoService) ListLogos(ctx context.Context) ([]LogoResponse, error) {
	logos, err := s.logoRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]LogoResponse, len(logos))
	for i, l := range logos {
		responses[i] = ToLogoResponse(l)
	}
	return responses, nil
}

// GetLogo returns a single logo submission
func (s *LogoService) GetLogo(ctx context.Context, rawID string) (*LogoResponse, error) {
	id, err := shared.ParseID(rawID, "logo")
	if err != nil {
		return nil, err
	}

	logo, err := s.logoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToLogoResponse(logo)
	return &resp, nil
}

// ApproveLogo marks a logo as approved. Approving an approved logo succeeds.
func (s *LogoService) ApproveLogo(ctx context.Context, rawID string) error {
	id, err := shared.ParseID(rawID, "logo")
	if err != nil {
		return err
	}

	logo, err := s.logoRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if logo.Approval {
		return nil
	}

	logo.Approve()
	if err := s.logoRepo.SetApproval(ctx, logo.ID, logo.Approval); err != nil {
		return err
	}

	s.logger.Info("Logo approved", zap.String("logo_id", id.String()))
	return nil
}
