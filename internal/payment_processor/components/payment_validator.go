package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lats-procurement-ledger/internal/domain/payment"
	"github.com/lats-procurement-ledger/internal/domain/shared"
	"github.com/lats-procurement-ledger/internal/payment_processor/service"
)

type PaymentValidatorImpl struct {
	paymentRepo payment.Repository
	logger      *slog.Logger
}

func NewPaymentValidator(paymentRepo payment.Repository, logger *slog.Logger) service.PaymentValidator {
	return &PaymentValidatorImpl{
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// Validate checks payment request validity
func (v *PaymentValidatorImpl) Validate(ctx context.Context, request *shared.PaymentRequest) error {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}

	if request.Amount <= 0 {
		logger.Error("Invalid amount", "payment_id", request.PaymentID.String(), "amount", request.Amount)
		return fmt.Errorf("amount must be positive: %d", request.Amount)
	}

	if len(request.Currency) != 3 {
		logger.Error("Invalid currency", "payment_id", request.PaymentID.String(), "currency", request.Currency)
		return shared.ErrInvalidCurrency
	}

	return nil
}

// CheckIdempotency checks if the payment was already settled
func (v *PaymentValidatorImpl) CheckIdempotency(ctx context.Context, request *shared.PaymentRequest) (bool, error) {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}

	existing, err := v.paymentRepo.GetByPaymentID(ctx, request.PaymentID)
	if err != nil && !errors.Is(err, payment.ErrPaymentNotFound{}) {
		logger.Error("Failed to check payment ledger for idempotency", "payment_id", request.PaymentID.String(), "error", err)
		return false, fmt.Errorf("idempotency check failed for payment %s: %w", request.PaymentID.String(), err)
	}

	if existing != nil {
		if existing.Status == shared.PaymentStatusCompleted || existing.Status == shared.PaymentStatusFailed {
			logger.Info("Payment already processed (idempotency)", "payment_id", request.PaymentID.String(), "status", existing.Status)
			return true, nil // Skip processing
		}
		logger.Info("Payment found in ledger with non-terminal status, proceeding", "payment_id", request.PaymentID.String(), "status", existing.Status)
	}

	return false, nil // Continue processing
}
