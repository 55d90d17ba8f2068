package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

const productNotFound = "Product not found"

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	store *Store
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(store *Store) *GormProductRepository {
	return &GormProductRepository{store: store}
}

// FindAll returns every product, newest first
func (r *GormProductRepository) FindAll(ctx context.Context) ([]*catalog.Product, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var productModels []models.ProductModel
	if err := db.Order("created_at DESC").Find(&productModels).Error; err != nil {
		return nil, translateError(err, "")
	}

	products := make([]*catalog.Product, len(productModels))
	for i := range productModels {
		products[i] = productModels[i].ToDomain()
	}
	return products, nil
}

// FindByID finds a product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var model models.ProductModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, productNotFound)
	}
	return model.ToDomain(), nil
}

// Create inserts a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return err
	}
	if err := db.Create(models.ProductModelFromDomain(product)).Error; err != nil {
		return translateError(err, productNotFound)
	}
	return nil
}

// Update replaces every writable column of an existing product.
// A map is used so empty strings are written rather than skipped.
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return err
	}
	result := db.Model(&models.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":        product.Name,
			"category":    product.Category,
			"price":       product.Price,
			"size":        product.Size,
			"image":       product.Image,
			"description": product.Description,
			"updated_at":  product.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error, productNotFound)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError(productNotFound)
	}
	return nil
}

// Delete removes a product by ID
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return err
	}
	result := db.Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, productNotFound)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError(productNotFound)
	}
	return nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
