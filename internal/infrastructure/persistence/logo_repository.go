package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customization"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

const logoNotFound = "Logo not found"

// GormLogoRepository implements LogoRepository using GORM
type GormLogoRepository struct {
	store *Store
}

// NewGormLogoRepository creates a new GormLogoRepository
func NewGormLogoRepository(store *Store) *GormLogoRepository {
	return &GormLogoRepository{store: store}
}

// FindAll returns every logo, newest first
func (r *GormLogoRepository) FindAll(ctx context.Context) ([]*customization.Logo, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var logoModels []models.LogoModel
	if err := db.Order("created_at DESC").Find(&logoModels).Error; err != nil {
		return nil, translateError(err, "")
	}

	logos := make([]*customization.Logo, len(logoModels))
	for i := range logoModels {
		logos[i] = logoModels[i].ToDomain()
	}
	return logos, nil
}

// FindByID finds a logo by ID
func (r *GormLogoRepository) FindByID(ctx context.Context, id uuid.UUID) (*customization.Logo, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var model models.LogoModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, logoNotFound)
	}
	return model.ToDomain(), nil
}

// SetApproval updates the approval flag of one logo
func (r *GormLogoRepository) SetApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return err
	}
	result := db.Model(&models.LogoModel{}).Where("id = ?", id).Update("approval", approved)
	if result.Error != nil {
		return translateError(result.Error, logoNotFound)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError(logoNotFound)
	}
	return nil
}

// Ensure GormLogoRepository implements LogoRepository
var _ customization.LogoRepository = (*GormLogoRepository)(nil)
