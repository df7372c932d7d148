package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrOverpaid      = errors.New("payment would exceed order total")
	ErrEmptyNumber   = errors.New("order number cannot be empty")
)

// Status tracks a purchase order's payment progress
type Status string

const (
	StatusUnpaid        Status = "UNPAID"
	StatusPartiallyPaid Status = "PARTIALLY_PAID"
	StatusPaid          Status = "PAID"
)

// PurchaseOrder is a supplier order whose total is settled through one or
// more payments. PaidAmount accumulates as the processor settles entries.
type PurchaseOrder struct {
	ID           uuid.UUID `json:"id"`
	OrderNumber  string    `json:"order_number"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	TotalAmount  int64     `json:"total_amount"` // Stored in cents/minor units
	PaidAmount   int64     `json:"paid_amount"`
	Currency     string    `json:"currency"`
	Status       Status    `json:"status"`
	Version      int       `json:"version"` // For optimistic locking
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewPurchaseOrder creates a new unpaid order with the given parameters
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID, supplierName string, totalAmount int64, currency string) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, ErrEmptyNumber
	}
	if totalAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(currency) != 3 {
		return nil, errors.New("currency must be a 3-letter code")
	}

	return &PurchaseOrder{
		ID:           uuid.New(),
		OrderNumber:  orderNumber,
		SupplierID:   supplierID,
		SupplierName: supplierName,
		TotalAmount:  totalAmount,
		PaidAmount:   0,
		Currency:     currency,
		Status:       StatusUnpaid,
		Version:      1,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// Outstanding returns the amount still owed on the order
func (o *PurchaseOrder) Outstanding() int64 {
	return o.TotalAmount - o.PaidAmount
}

// ApplyPayment raises the paid amount and derives the payment status.
// The paid amount can never exceed the order total.
func (o *PurchaseOrder) ApplyPayment(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if o.PaidAmount+amount > o.TotalAmount {
		return ErrOverpaid
	}

	o.PaidAmount += amount
	if o.PaidAmount == o.TotalAmount {
		o.Status = StatusPaid
	} else {
		o.Status = StatusPartiallyPaid
	}
	o.UpdatedAt = time.Now()
	o.Version++
	return nil
}
