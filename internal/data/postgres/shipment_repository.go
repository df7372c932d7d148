package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lats-procurement-ledger/internal/domain/shipping"
	"github.com/lats-procurement-ledger/internal/platform/persistence"
)

// ShipmentRepository implements the shipping.Repository interface for PostgreSQL.
// Each purchase order has at most one shipping record, so writes go through
// an upsert keyed on purchase_order_id.
type ShipmentRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewShipmentRepository creates a new PostgreSQL shipment repository
func NewShipmentRepository(logger *slog.Logger, db *persistence.PostgresDB) shipping.Repository {
	return &ShipmentRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

const shipmentColumns = `id, purchase_order_id, expected_delivery, address, city, country, phone, contact, carrier_tier,
	internal_ref, priority, internal_status, agent_id, assigned_date, pickup_date, delivery_attempts, actual_cost, internal_notes,
	mode, flight_number, departure_airport, arrival_airport, departure_time, arrival_time,
	vessel_name, port_of_loading, port_of_discharge, container_number,
	departure_date, arrival_date, created_at, updated_at`

// Upsert stores the shipping record, replacing any previous record for the
// same purchase order.
func (r *ShipmentRepository) Upsert(ctx context.Context, info *shipping.Info) error {
	query := `
		INSERT INTO shipments (` + shipmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32)
		ON CONFLICT (purchase_order_id) DO UPDATE SET
			expected_delivery = EXCLUDED.expected_delivery,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			country = EXCLUDED.country,
			phone = EXCLUDED.phone,
			contact = EXCLUDED.contact,
			carrier_tier = EXCLUDED.carrier_tier,
			internal_ref = EXCLUDED.internal_ref,
			priority = EXCLUDED.priority,
			internal_status = EXCLUDED.internal_status,
			agent_id = EXCLUDED.agent_id,
			assigned_date = EXCLUDED.assigned_date,
			pickup_date = EXCLUDED.pickup_date,
			delivery_attempts = EXCLUDED.delivery_attempts,
			actual_cost = EXCLUDED.actual_cost,
			internal_notes = EXCLUDED.internal_notes,
			mode = EXCLUDED.mode,
			flight_number = EXCLUDED.flight_number,
			departure_airport = EXCLUDED.departure_airport,
			arrival_airport = EXCLUDED.arrival_airport,
			departure_time = EXCLUDED.departure_time,
			arrival_time = EXCLUDED.arrival_time,
			vessel_name = EXCLUDED.vessel_name,
			port_of_loading = EXCLUDED.port_of_loading,
			port_of_discharge = EXCLUDED.port_of_discharge,
			container_number = EXCLUDED.container_number,
			departure_date = EXCLUDED.departure_date,
			arrival_date = EXCLUDED.arrival_date,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.querier.Exec(ctx, query,
		info.ID,
		info.PurchaseOrderID,
		info.ExpectedDelivery,
		info.Address,
		info.City,
		info.Country,
		info.Phone,
		info.Contact,
		info.CarrierTier,
		info.InternalRef,
		info.Priority,
		info.InternalStatus,
		info.AgentID,
		info.AssignedDate,
		info.PickupDate,
		info.DeliveryAttempts,
		info.ActualCost,
		info.InternalNotes,
		info.Mode,
		info.FlightNumber,
		info.DepartureAirport,
		info.ArrivalAirport,
		info.DepartureTime,
		info.ArrivalTime,
		info.VesselName,
		info.PortOfLoading,
		info.PortOfDischarge,
		info.ContainerNumber,
		info.DepartureDate,
		info.ArrivalDate,
		info.CreatedAt,
		info.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert shipment", "purchase_order_id", info.PurchaseOrderID.String(), "error", err)
		return fmt.Errorf("failed to upsert shipment: %w", err)
	}

	return nil
}

// GetByPurchaseOrderID retrieves the shipping record for a purchase order
func (r *ShipmentRepository) GetByPurchaseOrderID(ctx context.Context, purchaseOrderID uuid.UUID) (*shipping.Info, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE purchase_order_id = $1`

	info, err := r.scanShipment(r.querier.QueryRow(ctx, query, purchaseOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shipping.ErrShipmentNotFound{PurchaseOrderID: purchaseOrderID}
		}
		r.logger.Error("Failed to get shipment", "purchase_order_id", purchaseOrderID.String(), "error", err)
		return nil, fmt.Errorf("failed to get shipment: %w", err)
	}

	return info, nil
}

// GetByID retrieves a shipping record by its own ID
func (r *ShipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*shipping.Info, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE id = $1`

	info, err := r.scanShipment(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shipping.ErrShipmentNotFound{}
		}
		r.logger.Error("Failed to get shipment by id", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get shipment by id: %w", err)
	}

	return info, nil
}

// UpdateStatus persists a status transition along with the dates it stamped
func (r *ShipmentRepository) UpdateStatus(ctx context.Context, info *shipping.Info) error {
	query := `
		UPDATE shipments
		SET internal_status = $1, assigned_date = $2, pickup_date = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.querier.Exec(ctx, query,
		info.InternalStatus,
		info.AssignedDate,
		info.PickupDate,
		info.UpdatedAt,
		info.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update shipment status", "id", info.ID.String(), "error", err)
		return fmt.Errorf("failed to update shipment status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shipping.ErrShipmentNotFound{PurchaseOrderID: info.PurchaseOrderID}
	}

	return nil
}

func (r *ShipmentRepository) scanShipment(row pgx.Row) (*shipping.Info, error) {
	var info shipping.Info
	err := row.Scan(
		&info.ID,
		&info.PurchaseOrderID,
		&info.ExpectedDelivery,
		&info.Address,
		&info.City,
		&info.Country,
		&info.Phone,
		&info.Contact,
		&info.CarrierTier,
		&info.InternalRef,
		&info.Priority,
		&info.InternalStatus,
		&info.AgentID,
		&info.AssignedDate,
		&info.PickupDate,
		&info.DeliveryAttempts,
		&info.ActualCost,
		&info.InternalNotes,
		&info.Mode,
		&info.FlightNumber,
		&info.DepartureAirport,
		&info.ArrivalAirport,
		&info.DepartureTime,
		&info.ArrivalTime,
		&info.VesselName,
		&info.PortOfLoading,
		&info.PortOfDischarge,
		&info.ContainerNumber,
		&info.DepartureDate,
		&info.ArrivalDate,
		&info.CreatedAt,
		&info.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &info, nil
}
