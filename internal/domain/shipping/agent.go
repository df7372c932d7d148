package shipping

import (
	"time"

	"github.com/google/uuid"
)

// Contact is one person at a shipping agent
type Contact struct {
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Primary bool   `json:"is_primary"`
}

// Agent is an external shipping agent. Read-only within the payment and
// shipping workflow; selecting one copies a subset of its fields into the
// shipping record once, without keeping a live reference.
type Agent struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Company             string    `json:"company"`
	Phone               string    `json:"phone,omitempty"`
	Contacts            []Contact `json:"contacts,omitempty"`
	Address             string    `json:"address"`
	City                string    `json:"city"`
	Country             string    `json:"country"`
	PricePerCBM         int64     `json:"price_per_cbm"` // Stored in cents/minor units
	PricePerKg          int64     `json:"price_per_kg"`
	Specializations     []string  `json:"specializations,omitempty"`
	AverageDeliveryDays int       `json:"average_delivery_days"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// PrimaryContact returns the agent's contact in priority order: the contact
// flagged primary wins, otherwise the first contact. The boolean is false
// when the agent has no contacts at all.
func (a *Agent) PrimaryContact() (Contact, bool) {
	if len(a.Contacts) == 0 {
		return Contact{}, false
	}
	for _, c := range a.Contacts {
		if c.Primary {
			return c, true
		}
	}
	return a.Contacts[0], true
}

// ContactPhone returns the best known phone number for the agent: the
// primary contact's phone, falling back to the agent's own. The boolean is
// false when neither exists, so callers can preserve a prior value.
func (a *Agent) ContactPhone() (string, bool) {
	if c, ok := a.PrimaryContact(); ok && c.Phone != "" {
		return c.Phone, true
	}
	if a.Phone != "" {
		return a.Phone, true
	}
	return "", false
}
