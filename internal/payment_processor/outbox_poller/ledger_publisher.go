package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lats-procurement-ledger/internal/domain/outbox"
	"github.com/lats-procurement-ledger/internal/domain/payment"
	"github.com/lats-procurement-ledger/internal/domain/shared"
)

// LedgerPublisher publishes outbox messages to the payment ledger
type LedgerPublisher interface {
	PublishToLedger(ctx context.Context, message *outbox.Message) error
}

// LedgerPublisherImpl implements LedgerPublisher
type LedgerPublisherImpl struct {
	outboxRepo  outbox.Repository
	paymentRepo payment.Repository
	logger      *slog.Logger
}

// NewLedgerPublisher creates a new publisher
func NewLedgerPublisher(
	outboxRepo outbox.Repository,
	paymentRepo payment.Repository,
	logger *slog.Logger,
) LedgerPublisher {
	return &LedgerPublisherImpl{
		outboxRepo:  outboxRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// PublishToLedger writes a settled payment into the ledger and marks the
// outbox message processed
func (p *LedgerPublisherImpl) PublishToLedger(ctx context.Context, message *outbox.Message) error {
	entryToPublish, err := message.GetPayment()
	if err != nil {
		p.logger.Error("Failed to unmarshal payment from outbox payload",
			"outbox_id", message.ID, "payment_id", message.PaymentID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if entryToPublish.CorrelationID != "" {
		logger = p.logger.With("correlation_id", entryToPublish.CorrelationID)
	}

	logger.Info("Attempting to publish outbox message to payment ledger", "outbox_id", message.ID, "payment_id", message.PaymentID)

	entryToPublish.Status = shared.PaymentStatusCompleted
	now := time.Now().UTC()
	entryToPublish.ProcessedAt = &now

	existing, err := p.paymentRepo.GetByPaymentID(ctx, entryToPublish.PaymentID)
	if err != nil && !errors.Is(err, payment.ErrPaymentNotFound{}) {
		logger.Error("Failed to check existing payment before publishing", "payment_id", entryToPublish.PaymentID, "error", err)
		return fmt.Errorf("failed to check existing payment %s: %w", entryToPublish.PaymentID, err)
	}

	if existing != nil {
		if existing.Status == shared.PaymentStatusCompleted {
			logger.Info("Payment already COMPLETED", "payment_id", entryToPublish.PaymentID)
		} else {
			err = p.paymentRepo.UpdateStatus(ctx, entryToPublish.PaymentID, shared.PaymentStatusCompleted, "") // Empty reason for success
			if err != nil {
				logger.Error("Failed to update existing payment to COMPLETED", "payment_id", entryToPublish.PaymentID, "error", err)
				return fmt.Errorf("failed to update payment %s to COMPLETED: %w", entryToPublish.PaymentID, err)
			}
			logger.Info("Updated existing payment to COMPLETED", "payment_id", entryToPublish.PaymentID)
		}
	} else {
		if err = p.paymentRepo.Create(ctx, entryToPublish); err != nil {
			logger.Error("Failed to create payment ledger entry in MongoDB", "payment_id", entryToPublish.PaymentID, "error", err)
			return fmt.Errorf("failed to create payment ledger entry %s: %w", entryToPublish.PaymentID, err)
		}
		logger.Info("Created payment ledger entry in MongoDB", "payment_id", entryToPublish.PaymentID)
	}

	// Mark outbox message as processed
	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "payment_id", message.PaymentID, "error", err,
		)
		return fmt.Errorf("ledger write for %s OK, but failed to mark outbox %d as PROCESSED: %w", message.PaymentID, message.ID, err)
	}

	logger.Info("Outbox message processed and marked as PROCESSED", "outbox_id", message.ID, "payment_id", message.PaymentID)
	return nil
}
