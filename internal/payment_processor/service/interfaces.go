package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/lats-procurement-ledger/internal/domain/order"
	"github.com/lats-procurement-ledger/internal/domain/registry"
	"github.com/lats-procurement-ledger/internal/domain/shared"
)

// ProcessingService defines the interface for processing payment requests.
type ProcessingService interface {
	ProcessPayment(ctx context.Context, request *shared.PaymentRequest) error
}

// PaymentValidator validates payment requests before settlement
type PaymentValidator interface {
	Validate(ctx context.Context, request *shared.PaymentRequest) error
	CheckIdempotency(ctx context.Context, request *shared.PaymentRequest) (bool, error)
}

// SettlementManager draws the payment from its account and applies it to the
// purchase order inside one database transaction
type SettlementManager interface {
	Settle(ctx context.Context, tx pgx.Tx, request *shared.PaymentRequest) (*registry.PaymentAccount, *order.PurchaseOrder, error)
}

// OutboxManager handles the creation of outbox entries for settled payments
type OutboxManager interface {
	CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.PaymentRequest, updatedOrder *order.PurchaseOrder) error
}

// FailureRecorder handles recording failed payments
type FailureRecorder interface {
	RecordFailure(ctx context.Context, request *shared.PaymentRequest, failureReason string) error
}
