// Package registry holds the payment reference data: the methods a cashier
// can pick and the settlement accounts money is drawn from.
package registry

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInsufficientFunds     = errors.New("insufficient funds on payment account")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrEmptyAccountName      = errors.New("account name cannot be empty")
	ErrInvalidCurrencyFormat = errors.New("currency must be a 3-letter code")
)

// PaymentAccount is a settlement account (till, bank, mobile wallet) that
// supplier payments are drawn against.
type PaymentAccount struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Balance   int64     `json:"balance"` // Stored in cents/minor units
	Currency  string    `json:"currency"`
	IsActive  bool      `json:"is_active"`
	Version   int       `json:"version"` // For optimistic locking
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPaymentAccount creates a new active account with the given parameters
func NewPaymentAccount(name string, initialBalance int64, currency string) (*PaymentAccount, error) {
	if name == "" {
		return nil, ErrEmptyAccountName
	}
	if len(currency) != 3 {
		return nil, ErrInvalidCurrencyFormat
	}
	if initialBalance < 0 {
		return nil, ErrInvalidAmount
	}

	return &PaymentAccount{
		ID:        uuid.New(),
		Name:      name,
		Balance:   initialBalance,
		Currency:  currency,
		IsActive:  true,
		Version:   1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// Deposit adds the specified amount to the account balance
func (a *PaymentAccount) Deposit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	a.Balance += amount
	a.UpdatedAt = time.Now()
	a.Version++
	return nil
}

// Withdraw subtracts the specified amount from the account balance
func (a *PaymentAccount) Withdraw(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if a.Balance < amount {
		return ErrInsufficientFunds
	}

	a.Balance -= amount
	a.UpdatedAt = time.Now()
	a.Version++
	return nil
}

// CanWithdraw checks if the account has sufficient funds for a withdrawal
func (a *PaymentAccount) CanWithdraw(amount int64) bool {
	return a.Balance >= amount
}
