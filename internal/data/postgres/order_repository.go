// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// proper error handling for the procurement ledger system.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lats-procurement-ledger/internal/domain/order"
	"github.com/lats-procurement-ledger/internal/platform/persistence"
)

// OrderRepository implements the order.Repository interface for PostgreSQL
type OrderRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewOrderRepository creates a new PostgreSQL purchase order repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewOrderRepository(logger *slog.Logger, db *persistence.PostgresDB) order.Repository {
	return &OrderRepository{
		querier: db.Pool(), // Initialize with the pool
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls. The returned repository will use the provided
// transaction for all database operations.
func (r *OrderRepository) WithTx(tx pgx.Tx) order.Repository {
	return &OrderRepository{
		querier: tx, // Use the transaction
		logger:  r.logger,
	}
}

// Create stores a new purchase order. A duplicate order number surfaces as
// a database constraint error.
func (r *OrderRepository) Create(ctx context.Context, po *order.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, order_number, supplier_id, supplier_name, total_amount, paid_amount, currency, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.querier.Exec(ctx, query,
		po.ID,
		po.OrderNumber,
		po.SupplierID,
		po.SupplierName,
		po.TotalAmount,
		po.PaidAmount,
		po.Currency,
		po.Status,
		po.Version,
		po.CreatedAt,
		po.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create purchase order", "error", err)
		return fmt.Errorf("failed to create purchase order: %w", err)
	}

	return nil
}

// GetByID retrieves a purchase order by its ID
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.PurchaseOrder, error) {
	query := `
		SELECT id, order_number, supplier_id, supplier_name, total_amount, paid_amount, currency, status, version, created_at, updated_at
		FROM purchase_orders
		WHERE id = $1
	`

	var po order.PurchaseOrder
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&po.ID,
		&po.OrderNumber,
		&po.SupplierID,
		&po.SupplierName,
		&po.TotalAmount,
		&po.PaidAmount,
		&po.Currency,
		&po.Status,
		&po.Version,
		&po.CreatedAt,
		&po.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound{OrderID: id}
		}
		r.logger.Error("Failed to get purchase order", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}

	return &po, nil
}

// GetByOrderNumber retrieves a purchase order by its human-facing number
func (r *OrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*order.PurchaseOrder, error) {
	query := `
		SELECT id, order_number, supplier_id, supplier_name, total_amount, paid_amount, currency, status, version, created_at, updated_at
		FROM purchase_orders
		WHERE order_number = $1
	`

	var po order.PurchaseOrder
	err := r.querier.QueryRow(ctx, query, orderNumber).Scan(
		&po.ID,
		&po.OrderNumber,
		&po.SupplierID,
		&po.SupplierName,
		&po.TotalAmount,
		&po.PaidAmount,
		&po.Currency,
		&po.Status,
		&po.Version,
		&po.CreatedAt,
		&po.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Return nil, nil when no order is found with the given number
		}
		r.logger.Error("Failed to get purchase order by number", "orderNumber", orderNumber, "error", err)
		return nil, fmt.Errorf("failed to get purchase order by number: %w", err)
	}

	return &po, nil
}

// Update updates an existing purchase order using optimistic locking.
// Returns ErrConcurrentModification if the order was modified between read and update.
func (r *OrderRepository) Update(ctx context.Context, po *order.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET supplier_name = $1, total_amount = $2, paid_amount = $3, status = $4, version = $5, updated_at = $6
		WHERE id = $7 AND version = $8
	`

	result, err := r.querier.Exec(ctx, query,
		po.SupplierName,
		po.TotalAmount,
		po.PaidAmount,
		po.Status,
		po.Version,
		po.UpdatedAt,
		po.ID,
		po.Version-1, // Check previous version for optimistic locking
	)
	if err != nil {
		r.logger.Error("Failed to update purchase order", "id", po.ID.String(), "error", err)
		return fmt.Errorf("failed to update purchase order: %w", err)
	}

	if result.RowsAffected() == 0 {
		return order.ErrConcurrentModification{OrderID: po.ID}
	}

	return nil
}

// LockForUpdate obtains a pessimistic lock on the purchase order and returns its
// current state. This should be used within a transaction when settling payments.
func (r *OrderRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*order.PurchaseOrder, error) {
	query := `
		SELECT id, order_number, supplier_id, supplier_name, total_amount, paid_amount, currency, status, version, created_at, updated_at
		FROM purchase_orders
		WHERE id = $1
		FOR UPDATE
	`

	var po order.PurchaseOrder
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&po.ID,
		&po.OrderNumber,
		&po.SupplierID,
		&po.SupplierName,
		&po.TotalAmount,
		&po.PaidAmount,
		&po.Currency,
		&po.Status,
		&po.Version,
		&po.CreatedAt,
		&po.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound{OrderID: id}
		}
		r.logger.Error("Failed to lock purchase order for update", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock purchase order for update: %w", err)
	}

	return &po, nil
}
