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

// MethodRepository implements the registry.MethodRepository interface for PostgreSQL
type MethodRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewMethodRepository creates a new PostgreSQL payment method repository
func NewMethodRepository(logger *slog.Logger, db *persistence.PostgresDB) registry.MethodRepository {
	return &MethodRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetByID retrieves a payment method by its ID
func (r *MethodRepository) GetByID(ctx context.Context, id uuid.UUID) (*registry.PaymentMethod, error) {
	query := `
		SELECT id, name, kind, default_account_id, is_active, created_at, updated_at
		FROM payment_methods
		WHERE id = $1
	`

	var m registry.PaymentMethod
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.Name,
		&m.Kind,
		&m.DefaultAccountID,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registry.ErrMethodNotFound{MethodID: id}
		}
		r.logger.Error("Failed to get payment method", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}

	return &m, nil
}

// List retrieves all active payment methods ordered by name
func (r *MethodRepository) List(ctx context.Context) ([]*registry.PaymentMethod, error) {
	query := `
		SELECT id, name, kind, default_account_id, is_active, created_at, updated_at
		FROM payment_methods
		WHERE is_active = TRUE
		ORDER BY name
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list payment methods", "error", err)
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	defer rows.Close()

	var methods []*registry.PaymentMethod
	for rows.Next() {
		var m registry.PaymentMethod
		if err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Kind,
			&m.DefaultAccountID,
			&m.IsActive,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment method: %w", err)
		}
		methods = append(methods, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payment methods: %w", err)
	}

	return methods, nil
}
