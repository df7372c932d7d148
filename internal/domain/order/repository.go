package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines purchase order persistence operations
type Repository interface {
	Create(ctx context.Context, po *PurchaseOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)
	Update(ctx context.Context, po *PurchaseOrder) error

	// LockForUpdate acquires a pessimistic lock for payment settlement
	LockForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrConcurrentModification indicates optimistic lock failure
type ErrConcurrentModification struct {
	OrderID uuid.UUID
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for purchase order: " + e.OrderID.String()
}

// ErrOrderNotFound indicates missing purchase order
type ErrOrderNotFound struct {
	OrderID uuid.UUID
}

func (e ErrOrderNotFound) Error() string {
	return "purchase order not found: " + e.OrderID.String()
}

// ErrDuplicateOrderNumber indicates order number uniqueness violation
type ErrDuplicateOrderNumber struct {
	OrderNumber string
}

func (e ErrDuplicateOrderNumber) Error() string {
	return "purchase order with number already exists: " + e.OrderNumber
}
