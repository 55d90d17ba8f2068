package trade

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderService handles order queries and completion
type OrderService struct {
	orderRepo trade.OrderRepository
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// ListOrders returns every order, newest first
func (s *OrderService) ListOrders(ctx context.Context) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// GetOrder returns the id and status of a single order
func (s *OrderService) GetOrder(ctx context.Context, rawID string) (*OrderStatusResponse, error) {
	id, err := shared.ParseID(rawID, "order")
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &OrderStatusResponse{ID: order.ID, Status: order.Status}, nil
}

// CompleteOrder moves an order to the complete status. Completing a complete order succeeds.
func (s *OrderService) CompleteOrder(ctx context.Context, rawID string) error {
	id, err := shared.ParseID(rawID, "order")
	if err != nil {
		return err
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if order.IsComplete() {
		return nil
	}

	order.Complete()
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status); err != nil {
		return err
	}

	s.logger.Info("Order completed", zap.String("order_id", id.String()))
	return nil
}
