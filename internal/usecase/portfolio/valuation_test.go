package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

func TestValuate_EmptyHoldings(t *testing.T) {
	v := Valuate(domain.NewWallet(decimal.NewFromInt(1000)), nil)

	assert.True(t, v.TotalValue.Equal(decimal.NewFromInt(1000)))
	assert.True(t, v.Invested.IsZero())
	assert.True(t, v.UnrealizedPL.IsZero())
	assert.True(t, v.UnrealizedPLPercent.IsZero())
}

func TestValuate_NilWallet(t *testing.T) {
	v := Valuate(nil, []*domain.Holding{
		{Symbol: "X", Quantity: 2, AvgPurchasePrice: decimal.NewFromInt(10), CurrentPrice: decimal.NewFromInt(15)},
	})

	assert.True(t, v.TotalValue.Equal(decimal.NewFromInt(30)))
	assert.True(t, v.Invested.Equal(decimal.NewFromInt(20)))
	assert.True(t, v.UnrealizedPL.Equal(decimal.NewFromInt(10)))
}

func TestValuate_MixedPositions(t *testing.T) {
	wallet := domain.NewWallet(decimal.NewFromInt(500))
	holdings := []*domain.Holding{
		{Symbol: "X", Quantity: 10, AvgPurchasePrice: decimal.NewFromInt(50), CurrentPrice: decimal.NewFromInt(80)},
		{Symbol: "Y", Quantity: 4, AvgPurchasePrice: decimal.NewFromInt(100), CurrentPrice: decimal.NewFromInt(90)},
	}

	v := Valuate(wallet, holdings)

	// 500 + 800 + 360
	assert.True(t, v.TotalValue.Equal(decimal.NewFromInt(1660)))
	// 500 + 400
	assert.True(t, v.Invested.Equal(decimal.NewFromInt(900)))
	// +300 - 40
	assert.True(t, v.UnrealizedPL.Equal(decimal.NewFromInt(260)))
	// 260 / 900 * 100
	expected := decimal.NewFromInt(260).Div(decimal.NewFromInt(900)).Mul(decimal.NewFromInt(100))
	assert.True(t, v.UnrealizedPLPercent.Equal(expected))
}

func TestValuate_ZeroInvestedKeepsPercentZero(t *testing.T) {
	v := Valuate(domain.NewWallet(decimal.Zero), []*domain.Holding{
		{Symbol: "X", Quantity: 3, AvgPurchasePrice: decimal.Zero, CurrentPrice: decimal.NewFromInt(5)},
	})

	assert.True(t, v.UnrealizedPL.Equal(decimal.NewFromInt(15)))
	assert.True(t, v.UnrealizedPLPercent.IsZero())
}
