// Package coingecko implements the market-data collaborator against the
// CoinGecko REST API. CoinGecko keys its price endpoints by coin ID
// ("bitcoin") rather than ticker symbol ("BTC"), so the client maintains a
// symbol-to-ID mapping populated from the markets listing.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

const (
	// DefaultBaseURL is the public CoinGecko API root.
	DefaultBaseURL = "https://api.coingecko.com/api/v3"

	// symbolMapSize is the number of top markets used to seed the
	// symbol-to-ID mapping.
	symbolMapSize = 250
)

// Client is a CoinGecko API client implementing domain.MarketDataProvider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client

	mu        sync.RWMutex
	idsBySym  map[string]string
	refreshed time.Time
}

// NewClient creates a CoinGecko client. apiKey may be empty for the public
// rate-limited tier.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
		idsBySym: make(map[string]string),
	}
}

// marketEntry mirrors one element of the /coins/markets response.
// Numeric fields are nullable on the wire.
type marketEntry struct {
	ID           string   `json:"id"`
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name"`
	CurrentPrice *float64 `json:"current_price"`
	Change24h    *float64 `json:"price_change_percentage_24h"`
	TotalVolume  *float64 `json:"total_volume"`
}

func fromNullable(f *float64) decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*f)
}

// Markets returns the top markets by capitalization, at most limit entries.
func (c *Client) Markets(ctx context.Context, limit int) ([]domain.Market, error) {
	entries, err := c.fetchMarkets(ctx, limit)
	if err != nil {
		return nil, err
	}

	markets := make([]domain.Market, 0, len(entries))
	for _, e := range entries {
		markets = append(markets, domain.Market{
			Symbol:    domain.NormalizeSymbol(e.Symbol),
			Name:      e.Name,
			Price:     fromNullable(e.CurrentPrice),
			Change24h: fromNullable(e.Change24h),
			Volume:    fromNullable(e.TotalVolume),
		})
	}
	return markets, nil
}

// CurrentPrice returns the current market price for one symbol.
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	prices, err := c.CurrentPrices(ctx, []string{symbol})
	if err != nil {
		return decimal.Decimal{}, err
	}
	price, ok := prices[domain.NormalizeSymbol(symbol)]
	if !ok {
		return decimal.Decimal{}, domain.ErrSymbolNotFound
	}
	return price, nil
}

// CurrentPrices returns current prices for a batch of symbols, keyed by
// normalized symbol. Symbols CoinGecko does not list are absent from the
// result.
func (c *Client) CurrentPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	if len(symbols) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	idBySymbol, err := c.resolveIDs(ctx, symbols)
	if err != nil {
		return nil, err
	}
	if len(idBySymbol) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	ids := make([]string, 0, len(idBySymbol))
	for _, id := range idBySymbol {
		ids = append(ids, id)
	}

	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	params.Set("vs_currencies", "usd")

	// {"bitcoin": {"usd": 65000.12}, ...}
	var body map[string]map[string]float64
	if err := c.get(ctx, "/simple/price", params, &body); err != nil {
		return nil, err
	}

	prices := make(map[string]decimal.Decimal, len(idBySymbol))
	for symbol, id := range idBySymbol {
		if quote, ok := body[id]; ok {
			if usd, ok := quote["usd"]; ok {
				prices[symbol] = decimal.NewFromFloat(usd)
			}
		}
	}
	return prices, nil
}

// resolveIDs maps normalized symbols to CoinGecko coin IDs, refreshing the
// mapping from the markets listing when a symbol is unknown or the mapping
// is stale.
func (c *Client) resolveIDs(ctx context.Context, symbols []string) (map[string]string, error) {
	c.mu.RLock()
	resolved, missing := c.lookupLocked(symbols)
	stale := time.Since(c.refreshed) > time.Hour
	c.mu.RUnlock()

	if len(missing) == 0 && !stale {
		return resolved, nil
	}

	if err := c.refreshSymbolMap(ctx); err != nil {
		// Keep serving symbols we already know when the refresh fails.
		if len(resolved) > 0 {
			return resolved, nil
		}
		return nil, err
	}

	c.mu.RLock()
	resolved, _ = c.lookupLocked(symbols)
	c.mu.RUnlock()
	return resolved, nil
}

func (c *Client) lookupLocked(symbols []string) (map[string]string, []string) {
	resolved := make(map[string]string, len(symbols))
	var missing []string
	for _, symbol := range symbols {
		key := domain.NormalizeSymbol(symbol)
		if id, ok := c.idsBySym[key]; ok {
			resolved[key] = id
		} else {
			missing = append(missing, key)
		}
	}
	return resolved, missing
}

func (c *Client) refreshSymbolMap(ctx context.Context) error {
	entries, err := c.fetchMarkets(ctx, symbolMapSize)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		key := domain.NormalizeSymbol(e.Symbol)
		// First (highest-cap) listing wins for duplicated tickers.
		if _, ok := c.idsBySym[key]; !ok {
			c.idsBySym[key] = e.ID
		}
	}
	c.refreshed = time.Now()
	return nil
}

func (c *Client) fetchMarkets(ctx context.Context, limit int) ([]marketEntry, error) {
	if limit <= 0 {
		limit = symbolMapSize
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(limit))
	params.Set("page", "1")

	var entries []marketEntry
	if err := c.get(ctx, "/coins/markets", params, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("coingecko request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("coingecko returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode coingecko response: %w", err)
	}
	return nil
}
