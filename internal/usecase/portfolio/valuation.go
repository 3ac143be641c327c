package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

// Valuation is the derived, read-only view over a wallet and holdings
// snapshot. It is recomputed on demand and never stored.
type Valuation struct {
	TotalValue          decimal.Decimal // cash + sum(qty * currentPrice)
	Invested            decimal.Decimal // sum(qty * avgPurchasePrice)
	UnrealizedPL        decimal.Decimal // sum((currentPrice - avg) * qty)
	UnrealizedPLPercent decimal.Decimal // UnrealizedPL / Invested * 100, 0 when Invested is 0
}

// Valuate computes the valuation of a wallet and holdings snapshot.
// Degenerates gracefully to zeros on an empty holdings set.
func Valuate(wallet *domain.Wallet, holdings []*domain.Holding) Valuation {
	cash := decimal.Zero
	if wallet != nil {
		cash = wallet.Cash
	}

	marketValue := decimal.Zero
	invested := decimal.Zero
	unrealized := decimal.Zero
	for _, h := range holdings {
		marketValue = marketValue.Add(h.MarketValue())
		invested = invested.Add(h.CostBasis())
		unrealized = unrealized.Add(h.UnrealizedGain())
	}

	percent := decimal.Zero
	if !invested.IsZero() {
		percent = unrealized.Div(invested).Mul(decimal.NewFromInt(100))
	}

	return Valuation{
		TotalValue:          cash.Add(marketValue),
		Invested:            invested,
		UnrealizedPL:        unrealized,
		UnrealizedPLPercent: percent,
	}
}
