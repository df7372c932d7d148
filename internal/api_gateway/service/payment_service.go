package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lats-procurement-ledger/internal/domain/allocation"
	"github.com/lats-procurement-ledger/internal/domain/order"
	"github.com/lats-procurement-ledger/internal/domain/payment"
	"github.com/lats-procurement-ledger/internal/domain/registry"
	"github.com/lats-procurement-ledger/internal/domain/shared"
	"github.com/lats-procurement-ledger/internal/platform/messaging/producers"
)

// PaymentServiceImpl implements the PaymentService interface
type PaymentServiceImpl struct {
	orderRepo   order.Repository
	methodRepo  registry.MethodRepository
	accountRepo registry.AccountRepository
	paymentRepo payment.Repository
	producer    producers.MessagePublisher
	logger      *slog.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	logger *slog.Logger,
	orderRepo order.Repository,
	methodRepo registry.MethodRepository,
	accountRepo registry.AccountRepository,
	paymentRepo payment.Repository,
	producer producers.MessagePublisher,
) PaymentService {
	return &PaymentServiceImpl{
		orderRepo:   orderRepo,
		methodRepo:  methodRepo,
		accountRepo: accountRepo,
		paymentRepo: paymentRepo,
		producer:    producer,
		logger:      logger,
	}
}

// SubmitPayments builds an allocation ledger from the order's outstanding
// balance, replays the caller's entries through it, and publishes one
// payment request per settled entry. All entries share a batch ID.
func (s *PaymentServiceImpl) SubmitPayments(ctx context.Context, input *SubmitPaymentsInput) (*SubmitPaymentsResult, error) {
	if input.IdempotencyKey != "" {
		existing, err := s.paymentRepo.GetByIdempotencyKey(ctx, input.IdempotencyKey)
		if err != nil {
			s.logger.Error("Failed to check for existing payment with idempotency key",
				"idempotency_key", input.IdempotencyKey,
				"error", err,
			)
			return nil, err
		}
		if existing != nil {
			batch, err := s.paymentRepo.GetByBatchID(ctx, existing.BatchID)
			if err != nil {
				return nil, err
			}
			s.logger.Info("Found existing payment batch with idempotency key",
				"idempotency_key", input.IdempotencyKey,
				"batch_id", existing.BatchID,
			)
			return &SubmitPaymentsResult{BatchID: existing.BatchID, Existing: batch}, nil
		}
	}

	po, err := s.orderRepo.GetByID(ctx, input.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	if po.Outstanding() <= 0 {
		return nil, ErrOrderAlreadyPaid
	}

	ledger, err := allocation.NewLedger(po.Outstanding(), po.Currency)
	if err != nil {
		return nil, err
	}

	var selected *allocation.MethodAccount
	if input.Mode == allocation.ModeSingle {
		if input.MethodID == uuid.Nil {
			return nil, allocation.ErrNoMethodSelected
		}
		ma, err := s.resolveMethodAccount(ctx, input.MethodID, uuid.Nil)
		if err != nil {
			return nil, err
		}
		selected = ma
	} else {
		for _, in := range input.Entries {
			ma, err := s.resolveMethodAccount(ctx, in.MethodID, in.AccountID)
			if err != nil {
				return nil, err
			}
			if _, err := ledger.AddPayment(*ma, in.Amount, in.Reference, in.Notes); err != nil {
				return nil, err
			}
		}
	}

	entries, err := ledger.Settle(input.Mode, selected)
	if err != nil {
		return nil, err
	}

	batchID := uuid.New()
	result := &SubmitPaymentsResult{BatchID: batchID}

	for i, entry := range entries {
		req := &shared.PaymentRequest{
			PaymentID:       entry.ID,
			BatchID:         batchID,
			PurchaseOrderID: po.ID,
			OrderNumber:     po.OrderNumber,
			SupplierID:      po.SupplierID,
			SupplierName:    po.SupplierName,
			MethodID:        entry.MethodID,
			Method:          entry.Method,
			AccountID:       entry.AccountID,
			Account:         entry.Account,
			Amount:          entry.Amount,
			Currency:        po.Currency,
			Reference:       entry.Reference,
			Notes:           entry.Notes,
			CorrelationID:   input.CorrelationID,
			CreatedBy:       input.CreatedBy,
			Timestamp:       time.Now(),
		}
		// Only the first entry carries the batch idempotency key, so a
		// retry resolves the whole batch through it.
		if i == 0 {
			req.IdempotencyKey = input.IdempotencyKey
		}

		if err := s.producer.Publish(ctx, entry.ID.String(), req); err != nil {
			s.logger.Error("Failed to publish payment request",
				"payment_id", entry.ID,
				"batch_id", batchID,
				"purchase_order_id", po.ID,
				"error", err,
			)
			return nil, err
		}

		result.Accepted = append(result.Accepted, AcceptedPayment{
			PaymentID: entry.ID,
			Method:    entry.Method,
			Account:   entry.Account,
			Amount:    entry.Amount,
		})
	}

	s.logger.Info("Payment batch published",
		"batch_id", batchID,
		"purchase_order_id", po.ID,
		"entries", len(entries),
	)

	return result, nil
}

// resolveMethodAccount loads the method and its settlement account. An
// explicit account overrides the method's default.
func (s *PaymentServiceImpl) resolveMethodAccount(ctx context.Context, methodID, accountID uuid.UUID) (*allocation.MethodAccount, error) {
	method, err := s.methodRepo.GetByID(ctx, methodID)
	if err != nil {
		return nil, err
	}

	if accountID == uuid.Nil {
		accountID = method.DefaultAccountID
	}
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &allocation.MethodAccount{
		MethodID:  method.ID,
		Method:    method.Name,
		AccountID: account.ID,
		Account:   account.Name,
	}, nil
}

// GetPaymentByID retrieves a payment by its ID. Returns nil if not found
func (s *PaymentServiceImpl) GetPaymentByID(ctx context.Context, paymentID uuid.UUID) (*payment.Payment, error) {
	res, err := s.paymentRepo.GetByPaymentID(ctx, paymentID)
	if err != nil {
		var errNotFound payment.ErrPaymentNotFound
		if errors.As(err, &errNotFound) {
			s.logger.Info("Payment not found", "payment_id", paymentID.String())
			return nil, nil
		}
		s.logger.Error("Failed to get payment by ID", "payment_id", paymentID.String(), "error", err)
		return nil, err
	}
	return res, nil
}

// GetPaymentsByTimeRange retrieves paginated ledger entries created within
// the given window, most recent first
func (s *PaymentServiceImpl) GetPaymentsByTimeRange(ctx context.Context, start, end time.Time, page, perPage int) ([]*payment.Payment, error) {
	offset := (page - 1) * perPage

	payments, err := s.paymentRepo.GetByTimeRange(ctx, start, end, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to get payments by time range",
			"start", start,
			"end", end,
			"error", err,
		)
		return nil, err
	}

	return payments, nil
}

// GetPaymentsByOrderID retrieves paginated payment history for an order.
// Returns payments, total count, and any error
func (s *PaymentServiceImpl) GetPaymentsByOrderID(ctx context.Context, purchaseOrderID uuid.UUID, page, perPage int) ([]*payment.Payment, int64, error) {
	offset := (page - 1) * perPage

	payments, err := s.paymentRepo.GetByPurchaseOrderID(ctx, purchaseOrderID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.paymentRepo.CountByPurchaseOrderID(ctx, purchaseOrderID)
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}
