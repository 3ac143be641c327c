package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Holding represents a position in a single tradable symbol.
// Invariant: Quantity is always positive; a fully closed position is removed
// from the Holdings set, never kept at zero.
type Holding struct {
	Symbol           string
	Quantity         int64
	AvgPurchasePrice decimal.Decimal // weighted average cost per unit
	CurrentPrice     decimal.Decimal // last observed market price, informational only
}

// MarketValue returns Quantity * CurrentPrice.
func (h *Holding) MarketValue() decimal.Decimal {
	return h.CurrentPrice.Mul(decimal.NewFromInt(h.Quantity))
}

// CostBasis returns Quantity * AvgPurchasePrice.
func (h *Holding) CostBasis() decimal.Decimal {
	return h.AvgPurchasePrice.Mul(decimal.NewFromInt(h.Quantity))
}

// UnrealizedGain returns (CurrentPrice - AvgPurchasePrice) * Quantity.
func (h *Holding) UnrealizedGain() decimal.Decimal {
	return h.CurrentPrice.Sub(h.AvgPurchasePrice).Mul(decimal.NewFromInt(h.Quantity))
}

// GainPercent returns the unrealized gain relative to the average purchase
// price, in percent. Defined as zero when the average purchase price is zero.
func (h *Holding) GainPercent() decimal.Decimal {
	if h.AvgPurchasePrice.IsZero() {
		return decimal.Zero
	}
	return h.CurrentPrice.Sub(h.AvgPurchasePrice).
		Div(h.AvgPurchasePrice).
		Mul(decimal.NewFromInt(100))
}

// NormalizeSymbol canonicalizes a symbol for case-insensitive matching.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Holdings is an account's set of positions, keyed by normalized symbol.
type Holdings struct {
	bySymbol map[string]*Holding
}

// NewHoldings builds a Holdings set from a list of positions.
// Entries with non-positive quantity are dropped to uphold the invariant.
func NewHoldings(list []*Holding) *Holdings {
	hs := &Holdings{bySymbol: make(map[string]*Holding, len(list))}
	for _, h := range list {
		if h.Quantity <= 0 {
			continue
		}
		copied := *h
		copied.Symbol = NormalizeSymbol(h.Symbol)
		hs.bySymbol[copied.Symbol] = &copied
	}
	return hs
}

// Get returns the holding for symbol, if present.
func (hs *Holdings) Get(symbol string) (*Holding, bool) {
	h, ok := hs.bySymbol[NormalizeSymbol(symbol)]
	return h, ok
}

// Len returns the number of open positions.
func (hs *Holdings) Len() int {
	return len(hs.bySymbol)
}

// List returns all holdings sorted by symbol.
func (hs *Holdings) List() []*Holding {
	out := make([]*Holding, 0, len(hs.bySymbol))
	for _, h := range hs.bySymbol {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// ApplyBuy merges an executed buy into the set.
// A new position is opened at the execution price; an existing position gets a
// quantity-weighted average cost:
//
//	newAvg = (avg*oldQty + price*qty) / (oldQty + qty)
//
// CurrentPrice is refreshed to the execution price in both cases.
// The caller has already validated quantity and funds, so ApplyBuy only
// rejects contract violations.
func (hs *Holdings) ApplyBuy(symbol string, quantity int64, price decimal.Decimal) (*Holding, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	key := NormalizeSymbol(symbol)
	if key == "" {
		return nil, ErrInvalidSymbol
	}

	existing, ok := hs.bySymbol[key]
	if !ok {
		h := &Holding{
			Symbol:           key,
			Quantity:         quantity,
			AvgPurchasePrice: price,
			CurrentPrice:     price,
		}
		hs.bySymbol[key] = h
		return h, nil
	}

	oldQty := decimal.NewFromInt(existing.Quantity)
	addQty := decimal.NewFromInt(quantity)
	totalQty := oldQty.Add(addQty)

	existing.AvgPurchasePrice = existing.AvgPurchasePrice.Mul(oldQty).
		Add(price.Mul(addQty)).
		Div(totalQty)
	existing.Quantity += quantity
	existing.CurrentPrice = price
	return existing, nil
}

// ApplySell reduces the position for symbol by quantity.
// Returns ErrInsufficientHoldings when the symbol is not held or the held
// quantity is short; the set is untouched on failure. When the remaining
// quantity reaches zero the holding is removed and removed=true is returned.
// AvgPurchasePrice of any remainder is unchanged: a sell never reprices the
// remaining cost basis.
func (hs *Holdings) ApplySell(symbol string, quantity int64) (remaining *Holding, removed bool, err error) {
	if quantity <= 0 {
		return nil, false, ErrInvalidQuantity
	}

	key := NormalizeSymbol(symbol)
	existing, ok := hs.bySymbol[key]
	if !ok || existing.Quantity < quantity {
		return nil, false, ErrInsufficientHoldings
	}

	existing.Quantity -= quantity
	if existing.Quantity == 0 {
		delete(hs.bySymbol, key)
		return existing, true, nil
	}
	return existing, false, nil
}

// UpdateMarketPrice refreshes the observed market price for symbol.
// Quantity and cost basis are untouched. A no-op for symbols that are not
// held, and idempotent for repeated prices.
func (hs *Holdings) UpdateMarketPrice(symbol string, price decimal.Decimal) (*Holding, bool) {
	existing, ok := hs.bySymbol[NormalizeSymbol(symbol)]
	if !ok {
		return nil, false
	}
	existing.CurrentPrice = price
	return existing, true
}
