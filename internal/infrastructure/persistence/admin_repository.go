package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormAdminRepository implements AdminRepository using GORM
type GormAdminRepository struct {
	store *Store
}

// NewGormAdminRepository creates a new GormAdminRepository
func NewGormAdminRepository(store *Store) *GormAdminRepository {
	return &GormAdminRepository{store: store}
}

// Create inserts a new admin. The uq_admin_email index turns a duplicate into a conflict.
func (r *GormAdminRepository) Create(ctx context.Context, admin *identity.Admin) error {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return err
	}
	if err := db.Create(models.AdminModelFromDomain(admin)).Error; err != nil {
		err = translateError(err, "Admin not found")
		if shared.HasCode(err, shared.CodeAlreadyExists) {
			return shared.NewConflictError("Email already registered")
		}
		return err
	}
	return nil
}

// FindByID finds an admin by ID
func (r *GormAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Admin, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var model models.AdminModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Admin not found")
	}
	return model.ToDomain(), nil
}

// FindByEmail finds an admin by email
func (r *GormAdminRepository) FindByEmail(ctx context.Context, email string) (*identity.Admin, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var model models.AdminModel
	if err := db.First(&model, "email = ?", identity.NormalizeEmail(email)).Error; err != nil {
		return nil, translateError(err, "Admin not found")
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks if an email is already registered
func (r *GormAdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return false, err
	}
	var count int64
	if err := db.Model(&models.AdminModel{}).
		Where("email = ?", identity.NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, translateError(err, "")
	}
	return count > 0, nil
}

// FindAll returns every admin ordered by creation time
func (r *GormAdminRepository) FindAll(ctx context.Context) ([]*identity.Admin, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var adminModels []models.AdminModel
	if err := db.Order("created_at ASC").Find(&adminModels).Error; err != nil {
		return nil, translateError(err, "")
	}

	admins := make([]*identity.Admin, len(adminModels))
	for i := range adminModels {
		admins[i] = adminModels[i].ToDomain()
	}
	return admins, nil
}

// Ensure GormAdminRepository implements AdminRepository
var _ identity.AdminRepository = (*GormAdminRepository)(nil)
