package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lats-procurement-ledger/internal/domain/payment"
	"github.com/lats-procurement-ledger/internal/domain/shared"
)

// Message stores settled payment data for reliable ledger publishing
type Message struct {
	ID              int64               `json:"id"`
	PaymentID       uuid.UUID           `json:"payment_id"`
	PurchaseOrderID uuid.UUID           `json:"purchase_order_id"`
	Payload         json.RawMessage     `json:"payload"`
	Status          shared.OutboxStatus `json:"status"`
	Attempts        int                 `json:"attempts"`
	CreatedAt       time.Time           `json:"created_at"`
	LastAttemptAt   *time.Time          `json:"last_attempt_at,omitempty"`
}

func NewMessage(p *payment.Payment) (*Message, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return &Message{
		PaymentID:       p.PaymentID,
		PurchaseOrderID: p.PurchaseOrderID,
		Payload:         payload,
		Status:          shared.OutboxStatusPending,
		Attempts:        0,
		CreatedAt:       time.Now(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = shared.OutboxStatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = shared.OutboxStatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// GetPayment extracts the payment ledger entry from the payload
func (m *Message) GetPayment() (*payment.Payment, error) {
	var p payment.Payment
	if err := json.Unmarshal(m.Payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
