package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/lats-procurement-ledger/internal/domain/order"
	"github.com/lats-procurement-ledger/internal/domain/registry"
	"github.com/lats-procurement-ledger/internal/domain/shared"
	"github.com/lats-procurement-ledger/internal/payment_processor/service"
)

// SettlementManagerImpl implements the SettlementManager interface
type SettlementManagerImpl struct {
	accountRepo registry.AccountRepository
	orderRepo   order.Repository
	logger      *slog.Logger
}

// NewSettlementManager creates a new SettlementManagerImpl
func NewSettlementManager(accountRepo registry.AccountRepository, orderRepo order.Repository, logger *slog.Logger) service.SettlementManager {
	return &SettlementManagerImpl{
		accountRepo: accountRepo,
		orderRepo:   orderRepo,
		logger:      logger,
	}
}

// Settle locks the payment account and the purchase order, withdraws the
// payment amount, and applies it to the order's paid balance. Both rows are
// updated under the same transaction so the withdrawal and the order credit
// commit or roll back together.
func (m *SettlementManagerImpl) Settle(ctx context.Context, tx pgx.Tx, request *shared.PaymentRequest) (*registry.PaymentAccount, *order.PurchaseOrder, error) {
	logger := m.logger
	if request.CorrelationID != "" {
		logger = m.logger.With("correlation_id", request.CorrelationID)
	}

	accountRepoTx := m.accountRepo.WithTx(tx)
	orderRepoTx := m.orderRepo.WithTx(tx)

	// Lock the account for update
	lockedAccount, err := accountRepoTx.LockForUpdate(ctx, request.AccountID)
	if err != nil {
		if errors.Is(err, registry.ErrAccountNotFound{AccountID: request.AccountID}) {
			logger.Warn("Account not found for lock", "payment_id", request.PaymentID.String(), "account_id", request.AccountID.String())
			return nil, nil, err
		}
		logger.Error("Failed to lock account", "payment_id", request.PaymentID.String(), "account_id", request.AccountID.String(), "error", err)
		return nil, nil, fmt.Errorf("failed to lock account %s: %w", request.AccountID.String(), err)
	}
	logger.Info("Account locked", "payment_id", request.PaymentID.String(), "account_id", lockedAccount.ID.String(), "balance", lockedAccount.Balance)

	// Validate currency
	if lockedAccount.Currency != request.Currency {
		logger.Error("Currency mismatch", "payment_id", request.PaymentID.String(), "request_currency", request.Currency, "account_currency", lockedAccount.Currency)
		return nil, nil, shared.ErrInvalidCurrency
	}

	// Withdraw the payment amount
	if withdrawErr := lockedAccount.Withdraw(request.Amount); withdrawErr != nil {
		logger.Warn("Failed to withdraw from account",
			"payment_id", request.PaymentID.String(),
			"balance", lockedAccount.Balance,
			"amount", request.Amount,
			"error", withdrawErr,
		)
		return nil, nil, withdrawErr
	}

	// Lock the purchase order and apply the payment
	lockedOrder, err := orderRepoTx.LockForUpdate(ctx, request.PurchaseOrderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound{OrderID: request.PurchaseOrderID}) {
			logger.Warn("Purchase order not found for lock", "payment_id", request.PaymentID.String(), "purchase_order_id", request.PurchaseOrderID.String())
			return nil, nil, err
		}
		logger.Error("Failed to lock purchase order", "payment_id", request.PaymentID.String(), "purchase_order_id", request.PurchaseOrderID.String(), "error", err)
		return nil, nil, fmt.Errorf("failed to lock purchase order %s: %w", request.PurchaseOrderID.String(), err)
	}

	if applyErr := lockedOrder.ApplyPayment(request.Amount); applyErr != nil {
		logger.Warn("Failed to apply payment to purchase order",
			"payment_id", request.PaymentID.String(),
			"outstanding", lockedOrder.Outstanding(),
			"amount", request.Amount,
			"error", applyErr,
		)
		return nil, nil, applyErr
	}
	logger.Info("Settlement applied in memory",
		"payment_id", request.PaymentID.String(),
		"new_balance", lockedAccount.Balance,
		"paid_amount", lockedOrder.PaidAmount,
		"order_status", string(lockedOrder.Status),
	)

	// Persist both sides
	if err = accountRepoTx.Update(ctx, lockedAccount); err != nil {
		if errors.Is(err, registry.ErrConcurrentModification{AccountID: lockedAccount.ID}) {
			logger.Warn("Concurrent modification on account update", "payment_id", request.PaymentID.String(), "account_id", lockedAccount.ID.String())
		} else {
			logger.Error("Failed to update account in DB", "payment_id", request.PaymentID.String(), "account_id", lockedAccount.ID.String(), "error", err)
		}
		return nil, nil, err
	}

	if err = orderRepoTx.Update(ctx, lockedOrder); err != nil {
		if errors.Is(err, order.ErrConcurrentModification{OrderID: lockedOrder.ID}) {
			logger.Warn("Concurrent modification on purchase order update", "payment_id", request.PaymentID.String(), "purchase_order_id", lockedOrder.ID.String())
		} else {
			logger.Error("Failed to update purchase order in DB", "payment_id", request.PaymentID.String(), "purchase_order_id", lockedOrder.ID.String(), "error", err)
		}
		return nil, nil, err
	}
	logger.Info("Settlement persisted", "payment_id", request.PaymentID.String(), "purchase_order_id", lockedOrder.ID.String())

	return lockedAccount, lockedOrder, nil
}
