package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

const defaultMarketsLimit = 50

// MarketHandler handles HTTP requests for market data endpoints.
type MarketHandler struct {
	marketData domain.MarketDataProvider
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketData domain.MarketDataProvider) *MarketHandler {
	return &MarketHandler{marketData: marketData}
}

type marketResponse struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Change24h string `json:"change_24h"`
	Volume    string `json:"volume"`
}

// List handles GET /markets?limit=N
func (h *MarketHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultMarketsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 250 {
			writeError(w, &domain.ValidationError{Message: "limit must be an integer between 1 and 250"})
			return
		}
		limit = parsed
	}

	markets, err := h.marketData.Markets(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]marketResponse, 0, len(markets))
	for _, m := range markets {
		out = append(out, marketResponse{
			Symbol:    m.Symbol,
			Name:      m.Name,
			Price:     m.Price.String(),
			Change24h: m.Change24h.String(),
			Volume:    m.Volume.String(),
		})
	}
	writeJSON(w, http.StatusOK, map[string][]marketResponse{"markets": out})
}

// Price handles GET /markets/{symbol}/price
func (h *MarketHandler) Price(w http.ResponseWriter, r *http.Request) {
	symbol := domain.NormalizeSymbol(chi.URLParam(r, "symbol"))
	if symbol == "" {
		writeError(w, domain.ErrInvalidSymbol)
		return
	}

	price, err := h.marketData.CurrentPrice(r.Context(), symbol)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"symbol": symbol, "price": price.String()})
}
