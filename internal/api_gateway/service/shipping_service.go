package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lats-procurement-ledger/internal/domain/order"
	"github.com/lats-procurement-ledger/internal/domain/shipping"
)

// ShippingServiceImpl implements the ShippingService interface
type ShippingServiceImpl struct {
	orderRepo    order.Repository
	shipmentRepo shipping.Repository
	agentRepo    shipping.AgentRepository
	logger       *slog.Logger
}

// NewShippingService creates a new shipping service
func NewShippingService(
	logger *slog.Logger,
	orderRepo order.Repository,
	shipmentRepo shipping.Repository,
	agentRepo shipping.AgentRepository,
) ShippingService {
	return &ShippingServiceImpl{
		orderRepo:    orderRepo,
		shipmentRepo: shipmentRepo,
		agentRepo:    agentRepo,
		logger:       logger,
	}
}

// SaveShipping runs the wizard over the order's shipping record and persists
// the outcome. First saves start from a record with location defaults; later
// saves keep every accumulated detail and only redo the mode choice.
func (s *ShippingServiceImpl) SaveShipping(ctx context.Context, input *ShippingInput) (*shipping.Info, shipping.ValidationErrors, error) {
	po, err := s.orderRepo.GetByID(ctx, input.PurchaseOrderID)
	if err != nil {
		return nil, nil, err
	}

	existing, err := s.shipmentRepo.GetByPurchaseOrderID(ctx, input.PurchaseOrderID)
	if err != nil && !errors.Is(err, shipping.ErrShipmentNotFound{}) {
		return nil, nil, err
	}

	var wizard *shipping.Wizard
	if existing != nil {
		wizard = shipping.NewWizard(existing)
	} else {
		fresh := shipping.NewInfo(po.ID, po.OrderNumber)
		wizard = shipping.NewWizard(&fresh)
	}

	if err := wizard.ChooseMode(input.Mode); err != nil {
		return nil, shipping.ValidationErrors{"shipping_type": "Shipping method must be AIR or SEA"}, nil
	}

	if input.Apply != nil {
		input.Apply(wizard.Draft())
	}

	if input.AgentID != uuid.Nil {
		agent, err := s.agentRepo.GetByID(ctx, input.AgentID)
		if err != nil {
			return nil, nil, err
		}
		wizard.ApplyAgent(*agent)
	}

	info, err := wizard.Save()
	if err != nil {
		if errors.Is(err, shipping.ErrValidationFailed) {
			return nil, wizard.Validate(), nil
		}
		return nil, nil, err
	}

	if err := s.shipmentRepo.Upsert(ctx, &info); err != nil {
		return nil, nil, err
	}

	s.logger.Info("Shipping record saved",
		"purchase_order_id", po.ID,
		"shipment_id", info.ID,
		"mode", string(info.Mode),
	)

	return &info, nil, nil
}

// GetShipping retrieves the shipping record for an order. Returns nil if no
// record exists yet.
func (s *ShippingServiceImpl) GetShipping(ctx context.Context, purchaseOrderID uuid.UUID) (*shipping.Info, error) {
	info, err := s.shipmentRepo.GetByPurchaseOrderID(ctx, purchaseOrderID)
	if err != nil {
		if errors.Is(err, shipping.ErrShipmentNotFound{}) {
			return nil, nil
		}
		s.logger.Error("Failed to get shipping record", "purchase_order_id", purchaseOrderID.String(), "error", err)
		return nil, err
	}
	return info, nil
}

// UpdateStatus transitions a shipment's internal status through the wizard
// so the assigned and pickup dates are stamped exactly once. Returns nil if
// the shipment is not found.
func (s *ShippingServiceImpl) UpdateStatus(ctx context.Context, shipmentID uuid.UUID, status shipping.Status) (*shipping.Info, error) {
	info, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		if errors.Is(err, shipping.ErrShipmentNotFound{}) {
			return nil, nil
		}
		return nil, err
	}

	// Rebuild the wizard around the stored record; the stored mode is
	// re-chosen so the record survives the mode reset a fresh wizard does.
	wizard := shipping.NewWizard(info)
	if info.Mode.Valid() {
		if err := wizard.ChooseMode(info.Mode); err != nil {
			return nil, err
		}
	}
	wizard.SetStatus(status)

	updated := wizard.Info()
	updated.UpdatedAt = time.Now()

	if err := s.shipmentRepo.UpdateStatus(ctx, &updated); err != nil {
		return nil, err
	}

	s.logger.Info("Shipment status updated",
		"shipment_id", shipmentID,
		"status", string(status),
	)

	return &updated, nil
}
