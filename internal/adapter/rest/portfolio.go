package rest

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/konozo24/brokerx-backend/internal/domain"
	"github.com/konozo24/brokerx-backend/internal/usecase/portfolio"
)

// PortfolioHandler handles HTTP requests for portfolio and wallet endpoints.
type PortfolioHandler struct {
	portfolioSvc *portfolio.Service
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioSvc *portfolio.Service) *PortfolioHandler {
	return &PortfolioHandler{portfolioSvc: portfolioSvc}
}

type holdingResponse struct {
	Symbol           string `json:"symbol"`
	Quantity         int64  `json:"quantity"`
	AvgPurchasePrice string `json:"avg_purchase_price"`
	CurrentPrice     string `json:"current_price"`
	MarketValue      string `json:"market_value"`
	UnrealizedGain   string `json:"unrealized_gain"`
	GainPercent      string `json:"gain_percent"`
}

type valuationResponse struct {
	TotalValue          string `json:"total_value"`
	Invested            string `json:"invested"`
	UnrealizedPL        string `json:"unrealized_pl"`
	UnrealizedPLPercent string `json:"unrealized_pl_percent"`
}

type snapshotResponse struct {
	Cash      string            `json:"cash"`
	Holdings  []holdingResponse `json:"holdings"`
	Valuation valuationResponse `json:"valuation"`
}

type walletResponse struct {
	Cash string `json:"cash"`
}

type cashMovementRequest struct {
	Amount string `json:"amount"`
}

func toHoldingResponse(h *domain.Holding) holdingResponse {
	return holdingResponse{
		Symbol:           h.Symbol,
		Quantity:         h.Quantity,
		AvgPurchasePrice: h.AvgPurchasePrice.String(),
		CurrentPrice:     h.CurrentPrice.String(),
		MarketValue:      h.MarketValue().String(),
		UnrealizedGain:   h.UnrealizedGain().String(),
		GainPercent:      h.GainPercent().String(),
	}
}

// GetSnapshot handles GET /portfolio. ?refresh=true merges live quotes into
// the returned snapshot.
func (h *PortfolioHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Message: "missing user"})
		return
	}

	refresh := r.URL.Query().Get("refresh") == "true"
	snapshot, err := h.portfolioSvc.GetSnapshot(r.Context(), userID, refresh)
	if err != nil {
		writeError(w, err)
		return
	}

	holdings := make([]holdingResponse, 0, len(snapshot.Holdings))
	for _, holding := range snapshot.Holdings {
		holdings = append(holdings, toHoldingResponse(holding))
	}

	writeJSON(w, http.StatusOK, snapshotResponse{
		Cash:     snapshot.Wallet.Cash.String(),
		Holdings: holdings,
		Valuation: valuationResponse{
			TotalValue:          snapshot.Valuation.TotalValue.String(),
			Invested:            snapshot.Valuation.Invested.String(),
			UnrealizedPL:        snapshot.Valuation.UnrealizedPL.String(),
			UnrealizedPLPercent: snapshot.Valuation.UnrealizedPLPercent.String(),
		},
	})
}

// GetWallet handles GET /wallet
func (h *PortfolioHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Message: "missing user"})
		return
	}

	snapshot, err := h.portfolioSvc.GetSnapshot(r.Context(), userID, false)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, walletResponse{Cash: snapshot.Wallet.Cash.String()})
}

// Deposit handles POST /wallet/deposits
func (h *PortfolioHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.moveCash(w, r, h.portfolioSvc.Deposit)
}

// Withdraw handles POST /wallet/withdrawals
func (h *PortfolioHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.moveCash(w, r, h.portfolioSvc.Withdraw)
}

func (h *PortfolioHandler) moveCash(
	w http.ResponseWriter,
	r *http.Request,
	move func(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*domain.Wallet, error),
) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Message: "missing user"})
		return
	}

	var req cashMovementRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, &domain.ValidationError{Message: "amount must be a decimal string"})
		return
	}

	wallet, err := move(r.Context(), userID, amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, walletResponse{Cash: wallet.Cash.String()})
}
