package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/lats-procurement-ledger/internal/domain/order"
	"github.com/lats-procurement-ledger/internal/domain/outbox"
	"github.com/lats-procurement-ledger/internal/domain/payment"
	"github.com/lats-procurement-ledger/internal/domain/shared"
	"github.com/lats-procurement-ledger/internal/payment_processor/service"
)

type OutboxManagerImpl struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewOutboxManager(outboxRepo outbox.Repository, logger *slog.Logger) service.OutboxManager {
	return &OutboxManagerImpl{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// CreateOutboxEntry creates an outbox entry for a settled payment
func (m *OutboxManagerImpl) CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.PaymentRequest, updatedOrder *order.PurchaseOrder) error {
	logger := m.logger
	if request.CorrelationID != "" {
		logger = m.logger.With("correlation_id", request.CorrelationID)
	}

	outboxRepoTx := m.outboxRepo.WithTx(tx)

	paymentForOutbox := &payment.Payment{
		PaymentID:       request.PaymentID,
		BatchID:         request.BatchID,
		PurchaseOrderID: request.PurchaseOrderID,
		OrderNumber:     request.OrderNumber,
		SupplierID:      request.SupplierID,
		SupplierName:    request.SupplierName,
		MethodID:        request.MethodID,
		Method:          request.Method,
		AccountID:       request.AccountID,
		Account:         request.Account,
		Amount:          request.Amount,
		Currency:        request.Currency,
		Reference:       request.Reference,
		Notes:           request.Notes,
		IdempotencyKey:  request.IdempotencyKey,
		CorrelationID:   request.CorrelationID,
		Status:          shared.PaymentStatusProcessing,
		CreatedBy:       request.CreatedBy,
		CreatedAt:       request.Timestamp,
		// ProcessedAt is set by the poller
	}

	outboxMessage, err := outbox.NewMessage(paymentForOutbox)
	if err != nil {
		logger.Error("Failed to create new outbox message (marshal payload)",
			"payment_id", request.PaymentID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message payload for payment %s: %w", request.PaymentID.String(), err)
	}

	if err = outboxRepoTx.Create(ctx, outboxMessage); err != nil {
		logger.Error("Failed to create outbox message",
			"payment_id", request.PaymentID.String(),
			"purchase_order_id", request.PurchaseOrderID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message for payment %s: %w", request.PaymentID.String(), err)
	}
	logger.Info("Outbox message created",
		"payment_id", request.PaymentID.String(),
		"outbox_id", outboxMessage.ID,
		"order_status", string(updatedOrder.Status),
	)

	return nil
}
