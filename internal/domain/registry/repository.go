package registry

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccountRepository defines payment account persistence operations
type AccountRepository interface {
	Create(ctx context.Context, account *PaymentAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*PaymentAccount, error)
	List(ctx context.Context) ([]*PaymentAccount, error)
	Update(ctx context.Context, account *PaymentAccount) error

	// LockForUpdate acquires a pessimistic lock for payment settlement
	LockForUpdate(ctx context.Context, id uuid.UUID) (*PaymentAccount, error)
	WithTx(tx pgx.Tx) AccountRepository
}

// MethodRepository defines payment method persistence operations
type MethodRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*PaymentMethod, error)
	List(ctx context.Context) ([]*PaymentMethod, error)
}

// ErrConcurrentModification indicates optimistic lock failure
type ErrConcurrentModification struct {
	AccountID uuid.UUID
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for payment account: " + e.AccountID.String()
}

// ErrAccountNotFound indicates missing payment account
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "payment account not found: " + e.AccountID.String()
}

// ErrMethodNotFound indicates missing payment method
type ErrMethodNotFound struct {
	MethodID uuid.UUID
}

func (e ErrMethodNotFound) Error() string {
	return "payment method not found: " + e.MethodID.String()
}
