package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceTick is one observed market price for a symbol.
type PriceTick struct {
	Symbol string
	Price  decimal.Decimal
}

// Market is a read-only market listing entry from the market-data provider.
type Market struct {
	Symbol    string
	Name      string
	Price     decimal.Decimal
	Change24h decimal.Decimal // percent
	Volume    decimal.Decimal
}

// MarketDataProvider is the market-data collaborator. Prices returned here
// are the only trusted source of execution quotes; order placement never
// accepts an arbitrary client price.
type MarketDataProvider interface {
	// CurrentPrice returns the current market price for one symbol
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)

	// CurrentPrices returns current prices for a batch of symbols, keyed by
	// normalized symbol. Symbols the provider does not know are absent from
	// the result rather than an error.
	CurrentPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)

	// Markets returns the top markets by capitalization, at most limit entries
	Markets(ctx context.Context, limit int) ([]Market, error)
}

// OrderNotification carries the user-facing details of a settled order.
type OrderNotification struct {
	UserID    uuid.UUID
	Side      Side
	Symbol    string
	Quantity  int64
	Price     decimal.Decimal
	Timestamp time.Time
}

// Notifier is the notification collaborator. Delivery is best-effort: a
// failed notification never rolls back the settled order.
type Notifier interface {
	NotifyOrderSettled(ctx context.Context, n OrderNotification) error
}
