package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lats-procurement-ledger/internal/domain/shipping"
	"github.com/lats-procurement-ledger/internal/platform/persistence"
)

// AgentRepository implements the shipping.AgentRepository interface for PostgreSQL.
// Agent contacts are stored as a JSONB column since they are only ever read
// as a whole when auto-filling the shipping record.
type AgentRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewAgentRepository creates a new PostgreSQL shipping agent repository
func NewAgentRepository(logger *slog.Logger, db *persistence.PostgresDB) shipping.AgentRepository {
	return &AgentRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetByID retrieves a shipping agent by its ID
func (r *AgentRepository) GetByID(ctx context.Context, id uuid.UUID) (*shipping.Agent, error) {
	query := `
		SELECT id, name, company, phone, contacts, address, city, country,
		       price_per_cbm, price_per_kg, specializations, average_delivery_days, notes,
		       created_at, updated_at
		FROM shipping_agents
		WHERE id = $1
	`

	agent, err := r.scanAgent(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shipping.ErrAgentNotFound{AgentID: id}
		}
		r.logger.Error("Failed to get shipping agent", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get shipping agent: %w", err)
	}

	return agent, nil
}

// List retrieves all shipping agents ordered by name
func (r *AgentRepository) List(ctx context.Context) ([]*shipping.Agent, error) {
	query := `
		SELECT id, name, company, phone, contacts, address, city, country,
		       price_per_cbm, price_per_kg, specializations, average_delivery_days, notes,
		       created_at, updated_at
		FROM shipping_agents
		ORDER BY name
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list shipping agents", "error", err)
		return nil, fmt.Errorf("failed to list shipping agents: %w", err)
	}
	defer rows.Close()

	var agents []*shipping.Agent
	for rows.Next() {
		agent, err := r.scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shipping agent: %w", err)
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shipping agents: %w", err)
	}

	return agents, nil
}

func (r *AgentRepository) scanAgent(row pgx.Row) (*shipping.Agent, error) {
	var agent shipping.Agent
	var contactsJSON []byte
	err := row.Scan(
		&agent.ID,
		&agent.Name,
		&agent.Company,
		&agent.Phone,
		&contactsJSON,
		&agent.Address,
		&agent.City,
		&agent.Country,
		&agent.PricePerCBM,
		&agent.PricePerKg,
		&agent.Specializations,
		&agent.AverageDeliveryDays,
		&agent.Notes,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(contactsJSON) > 0 {
		if err := json.Unmarshal(contactsJSON, &agent.Contacts); err != nil {
			return nil, fmt.Errorf("failed to decode agent contacts: %w", err)
		}
	}

	return &agent, nil
}
