package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lats-procurement-ledger/internal/domain/allocation"
	"github.com/lats-procurement-ledger/internal/domain/order"
	"github.com/lats-procurement-ledger/internal/domain/payment"
	"github.com/lats-procurement-ledger/internal/domain/registry"
	"github.com/lats-procurement-ledger/internal/domain/shipping"
)

// Common service errors
var (
	ErrOrderAlreadyPaid = errors.New("purchase order has no outstanding balance")
)

// PaymentEntryInput is one allocation entry supplied by the caller
type PaymentEntryInput struct {
	MethodID  uuid.UUID
	AccountID uuid.UUID // Zero value falls back to the method's default account
	Amount    int64     // Zero defaults to the remaining balance
	Reference string
	Notes     string
}

// SubmitPaymentsInput carries one payment allocation submission
type SubmitPaymentsInput struct {
	PurchaseOrderID uuid.UUID
	Mode            allocation.Mode
	MethodID        uuid.UUID // Selected method for SINGLE mode
	Entries         []PaymentEntryInput
	IdempotencyKey  string
	CorrelationID   string
	CreatedBy       string
}

// AcceptedPayment identifies one payment accepted for async processing
type AcceptedPayment struct {
	PaymentID uuid.UUID
	Method    string
	Account   string
	Amount    int64
}

// SubmitPaymentsResult is the outcome of a payment submission
type SubmitPaymentsResult struct {
	BatchID  uuid.UUID
	Accepted []AcceptedPayment

	// Existing holds the previously submitted batch when the idempotency
	// key matched; Accepted is empty in that case.
	Existing []*payment.Payment
}

// PaymentService defines the interface for payment allocation operations
type PaymentService interface {
	// SubmitPayments validates an allocation against the order's outstanding
	// balance and publishes one payment request per entry for async settlement.
	// Allocation errors (over-allocation, missing method, empty entry list)
	// surface as the allocation package's sentinel errors.
	SubmitPayments(ctx context.Context, input *SubmitPaymentsInput) (*SubmitPaymentsResult, error)

	// GetPaymentByID retrieves a payment ledger entry by its ID.
	// Returns nil if the payment is not found.
	GetPaymentByID(ctx context.Context, paymentID uuid.UUID) (*payment.Payment, error)

	// GetPaymentsByOrderID retrieves paginated payment history for an order.
	// Returns payments, total count, and any error.
	GetPaymentsByOrderID(ctx context.Context, purchaseOrderID uuid.UUID, page, perPage int) ([]*payment.Payment, int64, error)

	// GetPaymentsByTimeRange retrieves paginated ledger entries created within
	// [start, end), most recent first.
	GetPaymentsByTimeRange(ctx context.Context, start, end time.Time, page, perPage int) ([]*payment.Payment, error)
}

// OrderService defines the interface for purchase order operations
type OrderService interface {
	// CreateOrder registers a new unpaid purchase order. A taken order number
	// surfaces as order.ErrDuplicateOrderNumber.
	CreateOrder(ctx context.Context, orderNumber string, supplierID uuid.UUID, supplierName string, totalAmount int64, currency string) (*order.PurchaseOrder, error)

	// GetOrderByID retrieves a purchase order, including its paid amount and
	// payment status. Returns order.ErrOrderNotFound if missing.
	GetOrderByID(ctx context.Context, id uuid.UUID) (*order.PurchaseOrder, error)
}

// ShippingInput carries a shipping details submission
type ShippingInput struct {
	PurchaseOrderID uuid.UUID
	Mode            shipping.Mode
	AgentID         uuid.UUID // Zero value leaves agent fields untouched
	Apply           func(draft *shipping.Info)
}

// ShippingService defines the interface for shipping record operations
type ShippingService interface {
	// SaveShipping runs the two-step wizard over the order's shipping record
	// (creating one with defaults on first save) and persists the result.
	// A non-nil ValidationErrors map means the record was rejected.
	SaveShipping(ctx context.Context, input *ShippingInput) (*shipping.Info, shipping.ValidationErrors, error)

	// GetShipping retrieves the shipping record for a purchase order.
	// Returns nil if no record exists yet.
	GetShipping(ctx context.Context, purchaseOrderID uuid.UUID) (*shipping.Info, error)

	// UpdateStatus transitions a shipment's internal status, stamping the
	// assigned/pickup dates on first transition. Returns nil if the shipment
	// is not found.
	UpdateStatus(ctx context.Context, shipmentID uuid.UUID, status shipping.Status) (*shipping.Info, error)
}

// RegistryService exposes the read-only reference data the payment and
// shipping forms are built from.
type RegistryService interface {
	ListMethods(ctx context.Context) ([]*registry.PaymentMethod, error)
	ListAccounts(ctx context.Context) ([]*registry.PaymentAccount, error)
	ListAgents(ctx context.Context) ([]*shipping.Agent, error)
}
