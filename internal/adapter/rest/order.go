package rest

import (
	"net/http"
	"time"

	"github.com/konozo24/brokerx-backend/internal/domain"
	"github.com/konozo24/brokerx-backend/internal/usecase/order"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	orderSvc *order.Service
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *order.Service) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// placeOrderRequest is the JSON request body for POST /orders. The execution
// price is always quoted server-side from the market data feed.
type placeOrderRequest struct {
	Symbol   string `json:"symbol"`
	Side     string `json:"side"`
	Quantity int64  `json:"quantity"`
}

type orderResponse struct {
	OrderID   string `json:"order_id"`
	Symbol    string `json:"symbol"`
	Side      string `json:"side"`
	Quantity  int64  `json:"quantity"`
	Price     string `json:"price"`
	Timestamp string `json:"timestamp"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		OrderID:   o.OrderID.String(),
		Symbol:    o.Symbol,
		Side:      string(o.Side),
		Quantity:  o.Quantity,
		Price:     o.Price.String(),
		Timestamp: o.Timestamp.UTC().Format(time.RFC3339),
	}
}

// Place handles POST /orders
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Message: "missing user"})
		return
	}

	var req placeOrderRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	side, err := domain.ParseSide(req.Side)
	if err != nil {
		writeError(w, err)
		return
	}

	placed, err := h.orderSvc.PlaceMarketOrder(r.Context(), userID, req.Symbol, side, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(placed))
}

// History handles GET /orders
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Message: "missing user"})
		return
	}

	orders, err := h.orderSvc.History(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, map[string][]orderResponse{"orders": out})
}
