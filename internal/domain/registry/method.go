package registry

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is a way of paying a supplier (cash, mobile money, bank
// transfer, card). Each method settles through a default account unless an
// allocation entry overrides it.
type PaymentMethod struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Kind             string    `json:"kind"` // cash, mobile_money, bank_transfer, card
	DefaultAccountID uuid.UUID `json:"default_account_id"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
