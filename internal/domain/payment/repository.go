package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lats-procurement-ledger/internal/domain/shared"
)

// Repository manages payment ledger persistence with pagination support
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByPaymentID(ctx context.Context, paymentID uuid.UUID) (*Payment, error)
	GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*Payment, error)
	GetByBatchID(ctx context.Context, batchID uuid.UUID) ([]*Payment, error)
	GetByPurchaseOrderID(ctx context.Context, purchaseOrderID uuid.UUID, limit, offset int) ([]*Payment, error)
	CountByPurchaseOrderID(ctx context.Context, purchaseOrderID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, paymentID uuid.UUID, status shared.PaymentStatus, reason string) error
	GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*Payment, error)
}

// ErrPaymentNotFound indicates missing payment ledger entry
type ErrPaymentNotFound struct {
	PaymentID uuid.UUID
}

func (e ErrPaymentNotFound) Error() string {
	return "payment not found: " + e.PaymentID.String()
}

// Is implements the errors.Is interface for ErrPaymentNotFound
func (e ErrPaymentNotFound) Is(target error) bool {
	t, ok := target.(ErrPaymentNotFound)
	if !ok {
		return false
	}
	// If the target PaymentID is empty, consider it a match for any ErrPaymentNotFound
	if t.PaymentID == uuid.Nil {
		return true
	}
	// Otherwise, match on PaymentID
	return e.PaymentID == t.PaymentID
}

// ErrDuplicatePayment indicates payment uniqueness violation
type ErrDuplicatePayment struct {
	PaymentID uuid.UUID
}

func (e ErrDuplicatePayment) Error() string {
	return "duplicate payment: " + e.PaymentID.String()
}

// Is implements the errors.Is interface for ErrDuplicatePayment
func (e ErrDuplicatePayment) Is(target error) bool {
	t, ok := target.(ErrDuplicatePayment)
	if !ok {
		return false
	}
	if t.PaymentID == uuid.Nil {
		return true
	}
	return e.PaymentID == t.PaymentID
}
