// Package payment holds the supplier payment ledger: one document per
// allocation entry, tracking it from submission through settlement.
package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/lats-procurement-ledger/internal/domain/shared"
)

// Payment represents a single supplier payment entry in the ledger.
// Entries submitted together in one allocation share a BatchID.
type Payment struct {
	PaymentID       uuid.UUID            `json:"payment_id" bson:"payment_id"`
	BatchID         uuid.UUID            `json:"batch_id" bson:"batch_id"`
	PurchaseOrderID uuid.UUID            `json:"purchase_order_id" bson:"purchase_order_id"`
	OrderNumber     string               `json:"order_number" bson:"order_number"`
	SupplierID      uuid.UUID            `json:"supplier_id" bson:"supplier_id"`
	SupplierName    string               `json:"supplier_name" bson:"supplier_name"`
	MethodID        uuid.UUID            `json:"method_id" bson:"method_id"`
	Method          string               `json:"method" bson:"method"`
	AccountID       uuid.UUID            `json:"account_id" bson:"account_id"`
	Account         string               `json:"account" bson:"account"`
	Amount          int64                `json:"amount" bson:"amount"` // Stored in cents/minor units
	Currency        string               `json:"currency" bson:"currency"`
	Reference       string               `json:"reference,omitempty" bson:"reference,omitempty"`
	Notes           string               `json:"notes,omitempty" bson:"notes,omitempty"`
	IdempotencyKey  string               `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty"`
	CorrelationID   string               `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	Status          shared.PaymentStatus `json:"status" bson:"status"`
	FailureReason   string               `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	CreatedBy       string               `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt       time.Time            `json:"created_at" bson:"created_at"`
	ProcessedAt     *time.Time           `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
}
