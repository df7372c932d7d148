package shipping

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages shipping record persistence
type Repository interface {
	Upsert(ctx context.Context, info *Info) error
	GetByPurchaseOrderID(ctx context.Context, purchaseOrderID uuid.UUID) (*Info, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Info, error)
	UpdateStatus(ctx context.Context, info *Info) error
}

// AgentRepository provides read access to the shipping agent directory
type AgentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Agent, error)
	List(ctx context.Context) ([]*Agent, error)
}

// ErrShipmentNotFound indicates missing shipping record
type ErrShipmentNotFound struct {
	PurchaseOrderID uuid.UUID
}

func (e ErrShipmentNotFound) Error() string {
	return "shipping info not found for purchase order: " + e.PurchaseOrderID.String()
}

// Is implements the errors.Is interface for ErrShipmentNotFound
func (e ErrShipmentNotFound) Is(target error) bool {
	t, ok := target.(ErrShipmentNotFound)
	if !ok {
		return false
	}
	if t.PurchaseOrderID == uuid.Nil {
		return true
	}
	return e.PurchaseOrderID == t.PurchaseOrderID
}

// ErrAgentNotFound indicates missing shipping agent
type ErrAgentNotFound struct {
	AgentID uuid.UUID
}

func (e ErrAgentNotFound) Error() string {
	return "shipping agent not found: " + e.AgentID.String()
}

// Is implements the errors.Is interface for ErrAgentNotFound
func (e ErrAgentNotFound) Is(target error) bool {
	t, ok := target.(ErrAgentNotFound)
	if !ok {
		return false
	}
	if t.AgentID == uuid.Nil {
		return true
	}
	return e.AgentID == t.AgentID
}
