package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

const orderNotFound = "Order not found"

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	store *Store
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(store *Store) *GormOrderRepository {
	return &GormOrderRepository{store: store}
}

// FindAll returns every order, newest first
func (r *GormOrderRepository) FindAll(ctx context.Context) ([]*trade.Order, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var orderModels []models.OrderModel
	if err := db.Order("created_at DESC").Find(&orderModels).Error; err != nil {
		return nil, translateError(err, "")
	}

	orders := make([]*trade.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = orderModels[i].ToDomain()
	}
	return orders, nil
}

// FindByID finds an order by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var model models.OrderModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, orderNotFound)
	}
	return model.ToDomain(), nil
}

// UpdateStatus sets the status of one order in a single statement
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return err
	}
	result := db.Model(&models.OrderModel{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return translateError(result.Error, orderNotFound)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError(orderNotFound)
	}
	return nil
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
