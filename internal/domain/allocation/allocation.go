// Package allocation implements the split-payment ledger used when settling a
// purchase order across one or more payment methods. A Ledger is built per
// submission attempt from the order's outstanding total; entries are added,
// edited and removed freely, and the whole allocation is checked once at
// settle time.
package allocation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidTotal      = errors.New("order total must be positive")
	ErrInvalidCurrency   = errors.New("currency must be a 3-letter code")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrExceedsRemaining  = errors.New("amount exceeds remaining balance")
	ErrIndexOutOfRange   = errors.New("entry index out of range")
	ErrNoMethodSelected  = errors.New("no payment method selected")
	ErrNoEntries         = errors.New("no payment entries to submit")
	ErrOverAllocated     = errors.New("entered total exceeds order total")
	ErrUnknownMode       = errors.New("unknown allocation mode")
)

// Mode selects how an order's total is satisfied at settle time.
type Mode string

const (
	// ModeSingle settles the full outstanding total with one selected method.
	ModeSingle Mode = "SINGLE"
	// ModeMultiple settles via the incrementally built entry list.
	ModeMultiple Mode = "MULTIPLE"
)

// Entry is one user-specified payment allocation: a method, a settlement
// account and an amount, plus optional free text.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	MethodID  uuid.UUID `json:"method_id"`
	Method    string    `json:"method"`
	AccountID uuid.UUID `json:"account_id"`
	Account   string    `json:"account"`
	Amount    int64     `json:"amount"` // Stored in cents/minor units
	Reference string    `json:"reference,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// MethodAccount identifies a payment method together with its default
// settlement account, as resolved from the registry.
type MethodAccount struct {
	MethodID  uuid.UUID
	Method    string
	AccountID uuid.UUID
	Account   string
}

// Ledger accumulates payment entries against an order's outstanding total.
// The total and currency are fixed at construction; currency is always the
// order's, never a method's, so a split can never mix currencies.
type Ledger struct {
	total    int64
	currency string
	entries  []Entry
}

// NewLedger creates a ledger for the given outstanding total and currency
func NewLedger(total int64, currency string) (*Ledger, error) {
	if total <= 0 {
		return nil, ErrInvalidTotal
	}
	if len(currency) != 3 {
		return nil, ErrInvalidCurrency
	}
	return &Ledger{
		total:    total,
		currency: currency,
	}, nil
}

// Total returns the order total the ledger was built against
func (l *Ledger) Total() int64 {
	return l.total
}

// Currency returns the order currency inherited by every entry
func (l *Ledger) Currency() string {
	return l.currency
}

// Remaining returns the order total minus the sum of current entries.
// It can go negative after unvalidated field edits; Settle catches that.
func (l *Ledger) Remaining() int64 {
	remaining := l.total
	for _, e := range l.entries {
		remaining -= e.Amount
	}
	return remaining
}

// Entries returns a copy of the current entry list in insertion order
func (l *Ledger) Entries() []Entry {
	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// AddPayment appends a new entry for the given method and account. A zero
// amount defaults to the remaining balance. The entry is rejected with no
// state change if the amount is not positive or exceeds the remaining
// balance at the time of the call.
func (l *Ledger) AddPayment(ma MethodAccount, amount int64, reference, notes string) (Entry, error) {
	if amount == 0 {
		amount = l.Remaining()
	}
	if amount <= 0 {
		return Entry{}, ErrInvalidAmount
	}
	if amount > l.Remaining() {
		return Entry{}, fmt.Errorf("%w: requested %d, remaining %d", ErrExceedsRemaining, amount, l.Remaining())
	}

	entry := Entry{
		ID:        uuid.New(),
		MethodID:  ma.MethodID,
		Method:    ma.Method,
		AccountID: ma.AccountID,
		Account:   ma.Account,
		Amount:    amount,
		Reference: reference,
		Notes:     notes,
	}
	l.entries = append(l.entries, entry)
	return entry, nil
}

// RemovePayment removes the entry at the given position, preserving the
// order of the remaining entries.
func (l *Ledger) RemovePayment(index int) error {
	if index < 0 || index >= len(l.entries) {
		return ErrIndexOutOfRange
	}
	l.entries = append(l.entries[:index], l.entries[index+1:]...)
	return nil
}

// UpdateAmount mutates an entry's amount in place. No re-validation against
// the order total happens here; Settle performs the final check.
func (l *Ledger) UpdateAmount(index int, amount int64) error {
	if index < 0 || index >= len(l.entries) {
		return ErrIndexOutOfRange
	}
	l.entries[index].Amount = amount
	return nil
}

// UpdateAccount mutates an entry's settlement account in place
func (l *Ledger) UpdateAccount(index int, accountID uuid.UUID, account string) error {
	if index < 0 || index >= len(l.entries) {
		return ErrIndexOutOfRange
	}
	l.entries[index].AccountID = accountID
	l.entries[index].Account = account
	return nil
}

// UpdateReference mutates an entry's reference text in place
func (l *Ledger) UpdateReference(index int, reference string) error {
	if index < 0 || index >= len(l.entries) {
		return ErrIndexOutOfRange
	}
	l.entries[index].Reference = reference
	return nil
}

// UpdateNotes mutates an entry's notes in place
func (l *Ledger) UpdateNotes(index int, notes string) error {
	if index < 0 || index >= len(l.entries) {
		return ErrIndexOutOfRange
	}
	l.entries[index].Notes = notes
	return nil
}

// Settle finalizes the allocation and returns the entries to submit.
//
// In single mode a selected method is required and a single synthetic entry
// is produced for the full outstanding total against the method's default
// account; the current entry list is ignored. In multiple mode the entry
// list must be non-empty and must not exceed the order total; a partial
// allocation (Remaining() > 0) is allowed.
func (l *Ledger) Settle(mode Mode, selected *MethodAccount) ([]Entry, error) {
	switch mode {
	case ModeSingle:
		if selected == nil || selected.MethodID == uuid.Nil {
			return nil, ErrNoMethodSelected
		}
		return []Entry{{
			ID:        uuid.New(),
			MethodID:  selected.MethodID,
			Method:    selected.Method,
			AccountID: selected.AccountID,
			Account:   selected.Account,
			Amount:    l.total,
		}}, nil
	case ModeMultiple:
		if len(l.entries) == 0 {
			return nil, ErrNoEntries
		}
		if l.Remaining() < 0 {
			return nil, fmt.Errorf("%w: total %d, entered %d", ErrOverAllocated, l.total, l.total-l.Remaining())
		}
		return l.Entries(), nil
	default:
		return nil, ErrUnknownMode
	}
}
