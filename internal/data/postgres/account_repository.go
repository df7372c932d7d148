package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lats-procurement-ledger/internal/domain/registry"
	"github.com/lats-procurement-ledger/internal/platform/persistence"
)

// AccountRepository implements the registry.AccountRepository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL payment account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) registry.AccountRepository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so account debits commit
// atomically with the order update during settlement.
func (r *AccountRepository) WithTx(tx pgx.Tx) registry.AccountRepository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new payment account in the database
func (r *AccountRepository) Create(ctx context.Context, acc *registry.PaymentAccount) error {
	query := `
		INSERT INTO payment_accounts (id, name, balance, currency, is_active, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.Name,
		acc.Balance,
		acc.Currency,
		acc.IsActive,
		acc.Version,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create payment account", "error", err)
		return fmt.Errorf("failed to create payment account: %w", err)
	}

	return nil
}

// GetByID retrieves a payment account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*registry.PaymentAccount, error) {
	query := `
		SELECT id, name, balance, currency, is_active, version, created_at, updated_at
		FROM payment_accounts
		WHERE id = $1
	`

	var acc registry.PaymentAccount
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&acc.ID,
		&acc.Name,
		&acc.Balance,
		&acc.Currency,
		&acc.IsActive,
		&acc.Version,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registry.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get payment account", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get payment account: %w", err)
	}

	return &acc, nil
}

// List retrieves all active payment accounts ordered by name
func (r *AccountRepository) List(ctx context.Context) ([]*registry.PaymentAccount, error) {
	query := `
		SELECT id, name, balance, currency, is_active, version, created_at, updated_at
		FROM payment_accounts
		WHERE is_active = TRUE
		ORDER BY name
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list payment accounts", "error", err)
		return nil, fmt.Errorf("failed to list payment accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*registry.PaymentAccount
	for rows.Next() {
		var acc registry.PaymentAccount
		if err := rows.Scan(
			&acc.ID,
			&acc.Name,
			&acc.Balance,
			&acc.Currency,
			&acc.IsActive,
			&acc.Version,
			&acc.CreatedAt,
			&acc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment account: %w", err)
		}
		accounts = append(accounts, &acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payment accounts: %w", err)
	}

	return accounts, nil
}

// Update updates an existing payment account using optimistic locking.
// Returns ErrConcurrentModification if the account was modified between read and update.
func (r *AccountRepository) Update(ctx context.Context, acc *registry.PaymentAccount) error {
	query := `
		UPDATE payment_accounts
		SET name = $1, balance = $2, currency = $3, is_active = $4, version = $5, updated_at = $6
		WHERE id = $7 AND version = $8
	`

	result, err := r.querier.Exec(ctx, query,
		acc.Name,
		acc.Balance,
		acc.Currency,
		acc.IsActive,
		acc.Version,
		acc.UpdatedAt,
		acc.ID,
		acc.Version-1, // Check previous version for optimistic locking
	)
	if err != nil {
		r.logger.Error("Failed to update payment account", "id", acc.ID.String(), "error", err)
		return fmt.Errorf("failed to update payment account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return registry.ErrConcurrentModification{AccountID: acc.ID}
	}

	return nil
}

// LockForUpdate obtains a pessimistic lock on the payment account and returns its
// current state. This should be used within a transaction when strong consistency
// is required.
func (r *AccountRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*registry.PaymentAccount, error) {
	query := `
		SELECT id, name, balance, currency, is_active, version, created_at, updated_at
		FROM payment_accounts
		WHERE id = $1
		FOR UPDATE
	`

	var acc registry.PaymentAccount
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&acc.ID,
		&acc.Name,
		&acc.Balance,
		&acc.Currency,
		&acc.IsActive,
		&acc.Version,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registry.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to lock payment account for update", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock payment account for update: %w", err)
	}

	return &acc, nil
}
