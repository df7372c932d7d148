package components

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lats-procurement-ledger/internal/domain/payment"
	"github.com/lats-procurement-ledger/internal/domain/shared"
	"github.com/lats-procurement-ledger/internal/payment_processor/service"
)

type FailureRecorderImpl struct {
	paymentRepo payment.Repository
	logger      *slog.Logger
}

func NewFailureRecorder(paymentRepo payment.Repository, logger *slog.Logger) service.FailureRecorder {
	return &FailureRecorderImpl{
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// RecordFailure records a failed payment in the ledger
func (r *FailureRecorderImpl) RecordFailure(ctx context.Context, request *shared.PaymentRequest, failureReason string) error {
	logger := r.logger
	if request.CorrelationID != "" {
		logger = r.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Recording failed payment", "payment_id", request.PaymentID.String(), "reason", failureReason)

	now := time.Now()
	entry := &payment.Payment{
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
		Status:          shared.PaymentStatusFailed,
		FailureReason:   failureReason,
		CreatedBy:       request.CreatedBy,
		CreatedAt:       request.Timestamp,
		ProcessedAt:     &now,
	}

	existing, err := r.paymentRepo.GetByPaymentID(ctx, request.PaymentID)
	if err != nil && !errors.Is(err, payment.ErrPaymentNotFound{}) {
		logger.Error("Failed to get existing ledger entry for failed payment", "payment_id", request.PaymentID.String(), "error", err)
	}

	if existing != nil {
		if existing.Status != shared.PaymentStatusFailed {
			updateErr := r.paymentRepo.UpdateStatus(ctx, request.PaymentID, shared.PaymentStatusFailed, failureReason)
			if updateErr != nil {
				logger.Error("Failed to update payment to FAILED", "payment_id", request.PaymentID.String(), "error", updateErr)
				return updateErr
			}
			logger.Info("Updated payment ledger entry to FAILED", "payment_id", request.PaymentID.String())
			return nil
		}
		logger.Info("Payment already marked as FAILED", "payment_id", request.PaymentID.String())
		return nil
	}

	if createErr := r.paymentRepo.Create(ctx, entry); createErr != nil {
		logger.Error("Failed to create FAILED payment ledger entry", "payment_id", request.PaymentID.String(), "error", createErr)
		return createErr
	}
	logger.Info("Created FAILED payment ledger entry", "payment_id", request.PaymentID.String())
	return nil
}
