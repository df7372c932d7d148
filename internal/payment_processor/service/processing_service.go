package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/lats-procurement-ledger/internal/domain/order"
	"github.com/lats-procurement-ledger/internal/domain/registry"
	"github.com/lats-procurement-ledger/internal/domain/shared"
	"github.com/lats-procurement-ledger/internal/platform/persistence"
)

type ProcessingServiceImpl struct {
	pgDB              *persistence.PostgresDB
	validator         PaymentValidator
	settlementManager SettlementManager
	outboxManager     OutboxManager
	failureRecorder   FailureRecorder
	logger            *slog.Logger
}

func NewProcessingService(
	pgDB *persistence.PostgresDB,
	validator PaymentValidator,
	settlementManager SettlementManager,
	outboxManager OutboxManager,
	failureRecorder FailureRecorder,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		pgDB:              pgDB,
		validator:         validator,
		settlementManager: settlementManager,
		outboxManager:     outboxManager,
		failureRecorder:   failureRecorder,
		logger:            logger,
	}
}

// ProcessPayment handles the core logic for settling one payment entry.
// Business failures are recorded on the payment ledger and acknowledged;
// infrastructure failures propagate so Kafka redelivers the message.
func (s *ProcessingServiceImpl) ProcessPayment(ctx context.Context, request *shared.PaymentRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Processing payment",
		"payment_id", request.PaymentID.String(),
		"purchase_order_id", request.PurchaseOrderID.String(),
		"account_id", request.AccountID.String(),
	)

	// 1. Validate the payment request
	if err := s.validator.Validate(ctx, request); err != nil {
		logger.Error("Payment validation failed", "payment_id", request.PaymentID.String(), "error", err)

		if recordErr := s.failureRecorder.RecordFailure(ctx, request, string(shared.FailureReasonInvalidAmount)); recordErr != nil {
			logger.Error("Failed to record payment failure", "payment_id", request.PaymentID.String(), "error", recordErr)
		}

		return nil // Acknowledge, the request can never succeed
	}

	// 2. Check idempotency
	skip, err := s.validator.CheckIdempotency(ctx, request)
	if err != nil {
		return err // Let Kafka retry
	}
	if skip {
		return nil // Already processed
	}

	// 3. Begin database transaction
	var tx pgx.Tx
	tx, err = s.pgDB.Pool().Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin database transaction", "payment_id", request.PaymentID.String(), "error", err)
		return fmt.Errorf("failed to begin DB transaction for %s: %w", request.PaymentID.String(), err)
	}
	defer func() {
		if p := recover(); p != nil {
			logger.Error("Panic recovered, rolling back transaction", "panic", p, "payment_id", request.PaymentID.String())
			_ = tx.Rollback(ctx)
			panic(p) // Re-panic
		} else if err != nil {
			logger.Error("Error occurred, rolling back transaction", "error", err, "payment_id", request.PaymentID.String())
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logger.Error("Failed to rollback transaction after error", "rollback_error", rbErr, "original_error", err, "payment_id", request.PaymentID.String())
			}
		}
	}()

	// 4. Settle: withdraw from the account and apply to the order
	_, updatedOrder, err := s.settlementManager.Settle(ctx, tx, request)
	if err != nil {
		if reason, terminal := settlementFailureReason(request, err); terminal {
			if recordErr := s.failureRecorder.RecordFailure(ctx, request, reason); recordErr != nil {
				logger.Error("Failed to record settlement failure", "payment_id", request.PaymentID.String(), "error", recordErr)
			}
			return nil // Acknowledge, business outcome is final
		}

		// For other errors, let them propagate for retry
		return err
	}

	// 5. Create outbox entry
	if err = s.outboxManager.CreateOutboxEntry(ctx, tx, request, updatedOrder); err != nil {
		return err // Let the defer handle rollback
	}

	// 6. Commit transaction
	if err = tx.Commit(ctx); err != nil {
		logger.Error("Failed to commit database transaction",
			"payment_id", request.PaymentID.String(),
			"purchase_order_id", request.PurchaseOrderID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to commit DB transaction for payment %s: %w", request.PaymentID.String(), err)
	}

	logger.Info("Payment settled",
		"payment_id", request.PaymentID.String(),
		"purchase_order_id", request.PurchaseOrderID.String(),
		"order_status", string(updatedOrder.Status),
	)
	return nil
}

// settlementFailureReason maps a settlement error to a recorded failure
// reason. The second return is false for errors worth a redelivery.
func settlementFailureReason(request *shared.PaymentRequest, err error) (string, bool) {
	switch {
	case errors.Is(err, registry.ErrAccountNotFound{AccountID: request.AccountID}):
		return string(shared.FailureReasonAccountNotFound), true
	case errors.Is(err, order.ErrOrderNotFound{OrderID: request.PurchaseOrderID}):
		return string(shared.FailureReasonOrderNotFound), true
	case errors.Is(err, shared.ErrInvalidCurrency):
		return fmt.Sprintf(string(shared.FailureReasonCurrencyMismatchFormat), request.Currency, "account_currency"), true
	case errors.Is(err, registry.ErrInsufficientFunds):
		return string(shared.FailureReasonInsufficientFunds), true
	case errors.Is(err, order.ErrOverpaid):
		return string(shared.FailureReasonOrderOverpaid), true
	case errors.Is(err, registry.ErrInvalidAmount), errors.Is(err, order.ErrInvalidAmount):
		return string(shared.FailureReasonInvalidAmount), true
	}
	return "", false
}
