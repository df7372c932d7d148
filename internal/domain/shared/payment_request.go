package shared

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidCurrency = errors.New("invalid currency")
)

// PaymentRequest defines a Kafka message for supplier payment processing.
// One request is published per allocation entry; entries submitted together
// share a BatchID so downstream consumers can correlate a split payment.
type PaymentRequest struct {
	PaymentID       uuid.UUID `json:"payment_id"`
	BatchID         uuid.UUID `json:"batch_id"`
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	OrderNumber     string    `json:"order_number"`
	SupplierID      uuid.UUID `json:"supplier_id"`
	SupplierName    string    `json:"supplier_name"`
	MethodID        uuid.UUID `json:"method_id"`
	Method          string    `json:"method"`
	AccountID       uuid.UUID `json:"account_id"`
	Account         string    `json:"account"`
	Amount          int64     `json:"amount"` // Stored in cents/minor units
	Currency        string    `json:"currency"`
	Reference       string    `json:"reference,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	IdempotencyKey  string    `json:"idempotency_key,omitempty"`
	CorrelationID   string    `json:"correlation_id"`
	CreatedBy       string    `json:"created_by"`
	Timestamp       time.Time `json:"timestamp"`
}
