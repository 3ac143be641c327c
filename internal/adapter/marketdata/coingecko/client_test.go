package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

const marketsBody = `[
	{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":65000.5,"price_change_percentage_24h":-1.2,"total_volume":1000000},
	{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":2500,"price_change_percentage_24h":null,"total_volume":null},
	{"id":"bitcoin-clone","symbol":"btc","name":"Bitcoin Clone","current_price":1,"price_change_percentage_24h":0,"total_volume":0}
]`

func newTestServer(t *testing.T, marketsCalls *int32) (*httptest.Server, *Client) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/coins/markets", func(w http.ResponseWriter, r *http.Request) {
		if marketsCalls != nil {
			atomic.AddInt32(marketsCalls, 1)
		}
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(marketsBody))
	})
	mux.HandleFunc("/simple/price", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":65000.5},"ethereum":{"usd":2500}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, "", 5*time.Second)
}

func TestMarkets(t *testing.T) {
	_, client := newTestServer(t, nil)

	markets, err := client.Markets(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, markets, 3)
	assert.Equal(t, "BTC", markets[0].Symbol)
	assert.Equal(t, "Bitcoin", markets[0].Name)
	assert.True(t, markets[0].Price.Equal(decimal.NewFromFloat(65000.5)))
	// Null numerics decode as zero
	assert.True(t, markets[1].Change24h.IsZero())
	assert.True(t, markets[1].Volume.IsZero())
}

func TestCurrentPrice(t *testing.T) {
	_, client := newTestServer(t, nil)

	price, err := client.CurrentPrice(context.Background(), "btc")

	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(65000.5)))
}

func TestCurrentPrice_UnknownSymbol(t *testing.T) {
	_, client := newTestServer(t, nil)

	_, err := client.CurrentPrice(context.Background(), "NOPE")

	assert.ErrorIs(t, err, domain.ErrSymbolNotFound)
}

func TestCurrentPrices_Batch(t *testing.T) {
	_, client := newTestServer(t, nil)

	prices, err := client.CurrentPrices(context.Background(), []string{"btc", "ETH", "NOPE"})

	require.NoError(t, err)
	require.Len(t, prices, 2, "unlisted symbols are absent")
	assert.True(t, prices["BTC"].Equal(decimal.NewFromFloat(65000.5)))
	assert.True(t, prices["ETH"].Equal(decimal.NewFromInt(2500)))
}

func TestCurrentPrices_EmptyInput(t *testing.T) {
	_, client := newTestServer(t, nil)

	prices, err := client.CurrentPrices(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestSymbolMap_CachedAcrossCalls(t *testing.T) {
	var calls int32
	_, client := newTestServer(t, &calls)

	_, err := client.CurrentPrice(context.Background(), "btc")
	require.NoError(t, err)
	_, err = client.CurrentPrice(context.Background(), "eth")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "mapping is refreshed once and reused")
}

func TestSymbolMap_HighestCapListingWins(t *testing.T) {
	_, client := newTestServer(t, nil)

	// Both "bitcoin" and "bitcoin-clone" list as BTC; the first entry wins.
	price, err := client.CurrentPrice(context.Background(), "BTC")

	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(65000.5)))
}

func TestUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "", 5*time.Second)

	_, err := client.Markets(context.Background(), 10)

	assert.Error(t, err)
}

func TestAPIKeyHeader(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-cg-demo-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "secret", 5*time.Second)

	_, err := client.Markets(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
}
