package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lats-procurement-ledger/internal/domain/order"
)

// OrderServiceImpl implements the OrderService interface
type OrderServiceImpl struct {
	orderRepo order.Repository
	logger    *slog.Logger
}

// NewOrderService creates a new purchase order service
func NewOrderService(logger *slog.Logger, orderRepo order.Repository) OrderService {
	return &OrderServiceImpl{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// CreateOrder registers a new unpaid purchase order after checking the order
// number is not already taken
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, orderNumber string, supplierID uuid.UUID, supplierName string, totalAmount int64, currency string) (*order.PurchaseOrder, error) {
	existing, err := s.orderRepo.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, order.ErrDuplicateOrderNumber{OrderNumber: orderNumber}
	}

	po, err := order.NewPurchaseOrder(orderNumber, supplierID, supplierName, totalAmount, currency)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, po); err != nil {
		return nil, err
	}

	s.logger.Info("Purchase order created",
		"purchase_order_id", po.ID,
		"order_number", po.OrderNumber,
		"total_amount", po.TotalAmount,
	)

	return po, nil
}

// GetOrderByID retrieves a purchase order by its ID
func (s *OrderServiceImpl) GetOrderByID(ctx context.Context, id uuid.UUID) (*order.PurchaseOrder, error) {
	return s.orderRepo.GetByID(ctx, id)
}
