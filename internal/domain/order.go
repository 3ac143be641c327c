package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side represents the direction of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide converts a string into a Side, case-insensitively.
func ParseSide(s string) (Side, error) {
	switch Side(NormalizeSymbol(s)) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	default:
		return "", ErrUnknownSide
	}
}

// Order is an immutable record of a settled order. Orders are append-only:
// once created they are never mutated or deleted, and the history view reads
// them back with their original execution price.
type Order struct {
	OrderID   uuid.UUID
	UserID    uuid.UUID
	Symbol    string
	Side      Side
	Quantity  int64
	Price     decimal.Decimal // execution price at time of placement
	Timestamp time.Time
}

// Notional returns Quantity * Price, the cash moved by the order.
func (o *Order) Notional() decimal.Decimal {
	return o.Price.Mul(decimal.NewFromInt(o.Quantity))
}
