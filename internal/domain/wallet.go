package domain

import "github.com/shopspring/decimal"

// Wallet holds an account's cash balance.
// Invariant: Cash is never negative after a committed operation.
type Wallet struct {
	Cash decimal.Decimal
}

// NewWallet creates a wallet with the given opening balance.
func NewWallet(cash decimal.Decimal) *Wallet {
	return &Wallet{Cash: cash}
}

// Credit increases the cash balance by amount.
// Returns ErrInvalidAmount for non-positive amounts; otherwise always succeeds.
func (w *Wallet) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	w.Cash = w.Cash.Add(amount)
	return nil
}

// Debit decreases the cash balance by amount.
// Returns ErrInvalidAmount for non-positive amounts and ErrInsufficientFunds
// when amount exceeds the current balance. The balance is untouched on failure.
func (w *Wallet) Debit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(w.Cash) {
		return ErrInsufficientFunds
	}
	w.Cash = w.Cash.Sub(amount)
	return nil
}
