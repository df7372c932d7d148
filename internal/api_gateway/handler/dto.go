package handler

import "time"

// CreateOrderRequest represents a purchase order registration
type CreateOrderRequest struct {
	OrderNumber  string `json:"order_number" binding:"required"`
	SupplierID   string `json:"supplier_id,omitempty" binding:"omitempty,uuid"`
	SupplierName string `json:"supplier_name,omitempty"`
	TotalAmount  int64  `json:"total_amount" binding:"required,min=1"`
	Currency     string `json:"currency" binding:"required,len=3"`
}

// OrderResponse represents a purchase order in API responses
type OrderResponse struct {
	ID           string `json:"id"`
	OrderNumber  string `json:"order_number"`
	SupplierID   string `json:"supplier_id,omitempty"`
	SupplierName string `json:"supplier_name,omitempty"`
	TotalAmount  int64  `json:"total_amount"`
	PaidAmount   int64  `json:"paid_amount"`
	Outstanding  int64  `json:"outstanding"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// PaymentEntryRequest is one allocation entry in a payment submission
type PaymentEntryRequest struct {
	MethodID  string `json:"method_id" binding:"required,uuid"`
	AccountID string `json:"account_id,omitempty" binding:"omitempty,uuid"`
	Amount    int64  `json:"amount" binding:"min=0"`
	Reference string `json:"reference,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// SubmitPaymentsRequest represents a payment allocation submission for a
// purchase order. In SINGLE mode only method_id is consulted; in MULTIPLE
// mode the entries list is submitted as built.
type SubmitPaymentsRequest struct {
	Mode           string                `json:"mode" binding:"required,oneof=SINGLE MULTIPLE"`
	MethodID       string                `json:"method_id,omitempty" binding:"omitempty,uuid"`
	Entries        []PaymentEntryRequest `json:"entries,omitempty" binding:"dive"`
	IdempotencyKey string                `json:"idempotency_key,omitempty"`
	CreatedBy      string                `json:"created_by,omitempty"`
}

// PaymentResponse represents a payment ledger entry in API responses
type PaymentResponse struct {
	PaymentID       string `json:"payment_id"`
	BatchID         string `json:"batch_id"`
	PurchaseOrderID string `json:"purchase_order_id"`
	OrderNumber     string `json:"order_number"`
	Method          string `json:"method"`
	Account         string `json:"account"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Reference       string `json:"reference,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Status          string `json:"status"`
	FailureReason   string `json:"failure_reason,omitempty"`
	CreatedAt       string `json:"created_at"`
	ProcessedAt     string `json:"processed_at,omitempty"`
}

// SubmitPaymentsResponse is returned when a payment batch is accepted
type SubmitPaymentsResponse struct {
	BatchID  string                   `json:"batch_id"`
	Status   string                   `json:"status"`
	Payments []AcceptedPaymentSummary `json:"payments"`
}

// AcceptedPaymentSummary identifies one accepted payment in a batch
type AcceptedPaymentSummary struct {
	PaymentID string `json:"payment_id"`
	Method    string `json:"method"`
	Account   string `json:"account"`
	Amount    int64  `json:"amount"`
}

// ShippingRequest represents a shipping details submission for a purchase
// order. The mode gates which detail fields apply; unknown-mode fields are
// carried but ignored.
type ShippingRequest struct {
	Mode             string `json:"shipping_type" binding:"required,oneof=AIR SEA"`
	ExpectedDelivery string `json:"expected_delivery,omitempty"`
	Address          string `json:"shipping_address,omitempty"`
	City             string `json:"shipping_city,omitempty"`
	Country          string `json:"shipping_country,omitempty"`
	Phone            string `json:"shipping_phone,omitempty"`
	Contact          string `json:"shipping_contact,omitempty"`
	CarrierTier      string `json:"shipping_method,omitempty"`
	Priority         string `json:"priority,omitempty" binding:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
	AgentID          string `json:"agent_id,omitempty" binding:"omitempty,uuid"`
	ActualCost       int64  `json:"actual_cost,omitempty" binding:"min=0"`
	InternalNotes    string `json:"internal_notes,omitempty"`

	// Air-only fields
	FlightNumber     string `json:"flight_number,omitempty"`
	DepartureAirport string `json:"departure_airport,omitempty"`
	ArrivalAirport   string `json:"arrival_airport,omitempty"`
	DepartureTime    string `json:"departure_time,omitempty"`
	ArrivalTime      string `json:"arrival_time,omitempty"`

	// Sea-only fields
	VesselName      string `json:"vessel_name,omitempty"`
	PortOfLoading   string `json:"port_of_loading,omitempty"`
	PortOfDischarge string `json:"port_of_discharge,omitempty"`
	ContainerNumber string `json:"container_number,omitempty"`

	// Shared between both modes
	DepartureDate string `json:"departure_date,omitempty"`
	ArrivalDate   string `json:"arrival_date,omitempty"`
}

// UpdateShipmentStatusRequest updates a shipment's internal status
type UpdateShipmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING ASSIGNED IN_TRANSIT DELIVERED"`
}

// ShipmentResponse represents a shipping record in API responses
type ShipmentResponse struct {
	ID               string `json:"id"`
	PurchaseOrderID  string `json:"purchase_order_id"`
	Mode             string `json:"shipping_type"`
	ExpectedDelivery string `json:"expected_delivery,omitempty"`
	Address          string `json:"shipping_address"`
	City             string `json:"shipping_city"`
	Country          string `json:"shipping_country"`
	Phone            string `json:"shipping_phone,omitempty"`
	Contact          string `json:"shipping_contact,omitempty"`
	CarrierTier      string `json:"shipping_method"`
	InternalRef      string `json:"internal_ref"`
	Priority         string `json:"priority"`
	InternalStatus   string `json:"internal_status"`
	AgentID          string `json:"agent_id,omitempty"`
	AssignedDate     string `json:"assigned_date,omitempty"`
	PickupDate       string `json:"pickup_date,omitempty"`
	DeliveryAttempts int    `json:"delivery_attempts"`
	ActualCost       int64  `json:"actual_cost"`
	InternalNotes    string `json:"internal_notes,omitempty"`

	FlightNumber     string `json:"flight_number,omitempty"`
	DepartureAirport string `json:"departure_airport,omitempty"`
	ArrivalAirport   string `json:"arrival_airport,omitempty"`
	DepartureTime    string `json:"departure_time,omitempty"`
	ArrivalTime      string `json:"arrival_time,omitempty"`

	VesselName      string `json:"vessel_name,omitempty"`
	PortOfLoading   string `json:"port_of_loading,omitempty"`
	PortOfDischarge string `json:"port_of_discharge,omitempty"`
	ContainerNumber string `json:"container_number,omitempty"`

	DepartureDate string `json:"departure_date,omitempty"`
	ArrivalDate   string `json:"arrival_date,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// AgentContactResponse represents one contact at a shipping agent
type AgentContactResponse struct {
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Primary bool   `json:"is_primary"`
}

// AgentResponse represents a shipping agent in API responses
type AgentResponse struct {
	ID                  string                 `json:"id"`
	Name                string                 `json:"name"`
	Company             string                 `json:"company"`
	Phone               string                 `json:"phone,omitempty"`
	Contacts            []AgentContactResponse `json:"contacts,omitempty"`
	Address             string                 `json:"address"`
	City                string                 `json:"city"`
	Country             string                 `json:"country"`
	PricePerCBM         int64                  `json:"price_per_cbm"`
	PricePerKg          int64                  `json:"price_per_kg"`
	Specializations     []string               `json:"specializations,omitempty"`
	AverageDeliveryDays int                    `json:"average_delivery_days"`
	Notes               string                 `json:"notes,omitempty"`
}

// MethodResponse represents a payment method in API responses
type MethodResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Kind             string `json:"kind"`
	DefaultAccountID string `json:"default_account_id"`
}

// AccountResponse represents a payment account in API responses
type AccountResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

// TimeRangeParams bounds a payment ledger listing. Both bounds are required;
// from is inclusive, to is exclusive.
type TimeRangeParams struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	To   time.Time `form:"to" binding:"required,gtfield=From" time_format:"2006-01-02T15:04:05Z07:00"`
}
