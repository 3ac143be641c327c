package domain

import "errors"

// Sentinel errors for domain-level error handling.
// Business rejections (insufficient funds/holdings) are ordinary negative
// results reported back to the caller; the HTTP layer maps these to status
// codes. ErrInvalidQuantity and ErrInvalidAmount indicate a caller contract
// violation, not a business rejection.
var (
	ErrInsufficientFunds    = errors.New("insufficient_funds")
	ErrInsufficientHoldings = errors.New("insufficient_holdings")
	ErrInvalidQuantity      = errors.New("invalid_quantity")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidPrice         = errors.New("invalid_price")
	ErrInvalidSymbol        = errors.New("invalid_symbol")
	ErrUnknownSide          = errors.New("unknown_order_side")
	ErrAccountNotFound      = errors.New("account_not_found")
	ErrHoldingNotFound      = errors.New("holding_not_found")
	ErrNoBankAccount        = errors.New("no_bank_account")
	ErrSymbolNotFound       = errors.New("symbol_not_found")
)

// ValidationError represents a request validation failure with a
// human-readable message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
