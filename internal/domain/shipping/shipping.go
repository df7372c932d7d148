// Package shipping models purchase-order shipment details and the two-step
// wizard used to capture them: a shipping mode is chosen first, then the
// mode's detail fields are filled in.
package shipping

import (
	"time"

	"github.com/google/uuid"
)

// Mode gates which detail fields are relevant for a shipment
type Mode string

const (
	ModeAir Mode = "AIR"
	ModeSea Mode = "SEA"
)

// Valid reports whether m is a known shipping mode
func (m Mode) Valid() bool {
	return m == ModeAir || m == ModeSea
}

// Priority is the internal handling priority of a shipment
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Status tracks a shipment through internal operations
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAssigned  Status = "ASSIGNED"
	StatusInTransit Status = "IN_TRANSIT"
	StatusDelivered Status = "DELIVERED"
)

// Info is the full shipping record for a purchase order. Mode-specific
// fields for the inactive mode persist in the struct across mode switches
// but are ignored by validation; API responses carry only the active
// mode's detail fields.
type Info struct {
	ID              uuid.UUID `json:"id"`
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`

	// Core fields
	ExpectedDelivery time.Time `json:"expected_delivery,omitempty"`
	Address          string    `json:"shipping_address"`
	City             string    `json:"shipping_city"`
	Country          string    `json:"shipping_country"`
	Phone            string    `json:"shipping_phone"`
	Contact          string    `json:"shipping_contact"`
	CarrierTier      string    `json:"shipping_method"` // Free-text carrier tier, e.g. "Standard"

	// Internal-only fields
	InternalRef      string     `json:"internal_ref"`
	Priority         Priority   `json:"priority"`
	InternalStatus   Status     `json:"internal_status"`
	AgentID          uuid.UUID  `json:"agent_id,omitempty"`
	AssignedDate     time.Time  `json:"assigned_date,omitempty"`
	PickupDate       time.Time  `json:"pickup_date,omitempty"`
	DeliveryAttempts int        `json:"delivery_attempts"`
	ActualCost       int64      `json:"actual_cost"` // Stored in cents/minor units
	InternalNotes    string     `json:"internal_notes,omitempty"`

	// Mode selection; must be set before any mode-specific field is meaningful
	Mode Mode `json:"shipping_type,omitempty"`

	// Air-only fields
	FlightNumber     string    `json:"flight_number,omitempty"`
	DepartureAirport string    `json:"departure_airport,omitempty"`
	ArrivalAirport   string    `json:"arrival_airport,omitempty"`
	DepartureTime    string    `json:"departure_time,omitempty"`
	ArrivalTime      string    `json:"arrival_time,omitempty"`

	// Sea-only fields
	VesselName      string `json:"vessel_name,omitempty"`
	PortOfLoading   string `json:"port_of_loading,omitempty"`
	PortOfDischarge string `json:"port_of_discharge,omitempty"`
	ContainerNumber string `json:"container_number,omitempty"`

	// Shared between both modes
	DepartureDate time.Time `json:"departure_date,omitempty"`
	ArrivalDate   time.Time `json:"arrival_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewInfo returns a shipping record with the defaults applied when a fresh
// wizard opens for the given purchase order.
func NewInfo(purchaseOrderID uuid.UUID, orderNumber string) Info {
	ref := orderNumber
	if len(ref) > 6 {
		ref = ref[len(ref)-6:]
	}
	return Info{
		ID:              uuid.New(),
		PurchaseOrderID: purchaseOrderID,
		City:            "Dar es Salaam",
		Country:         "Tanzania",
		CarrierTier:     "Standard",
		InternalRef:     "PO-" + ref,
		Priority:        PriorityNormal,
		InternalStatus:  StatusPending,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

// ValidationErrors maps field names to human-readable messages.
// An empty map signals a valid record.
type ValidationErrors map[string]string

// Validate checks the record synchronously. Only the shipping mode is
// mandatory; every other field can be added later.
func (i *Info) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if i.Mode == "" {
		errs["shipping_type"] = "Shipping method is required"
	} else if !i.Mode.Valid() {
		errs["shipping_type"] = "Shipping method must be AIR or SEA"
	}
	return errs
}
