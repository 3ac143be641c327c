package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

// errorResponse is the standard error response format.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError maps a service error to an HTTP status code and writes the
// standard error body. Business rejections map to 422; they are expected
// negative results, not server failures.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation_error", Message: validationErr.Message})
		return
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientHoldings),
		errors.Is(err, domain.ErrNoBankAccount):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Message: rejectionMessage(err)})
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidSymbol),
		errors.Is(err, domain.ErrUnknownSide):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Message: rejectionMessage(err)})
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrHoldingNotFound),
		errors.Is(err, domain.ErrSymbolNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Message: rejectionMessage(err)})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: "internal server error"})
	}
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "wallet balance is insufficient for this operation"
	case errors.Is(err, domain.ErrInsufficientHoldings):
		return "held quantity is insufficient for this sell"
	case errors.Is(err, domain.ErrNoBankAccount):
		return "link a bank account first"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "quantity must be a positive integer"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "amount must be positive"
	case errors.Is(err, domain.ErrInvalidPrice):
		return "price must be non-negative"
	case errors.Is(err, domain.ErrInvalidSymbol):
		return "symbol is required"
	case errors.Is(err, domain.ErrUnknownSide):
		return "side must be BUY or SELL"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account not found"
	case errors.Is(err, domain.ErrHoldingNotFound):
		return "no open position in this symbol"
	case errors.Is(err, domain.ErrSymbolNotFound):
		return "symbol is not listed by the market data provider"
	default:
		return err.Error()
	}
}

// parseJSON decodes the request body as JSON into v, rejecting unknown
// fields.
func parseJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &domain.ValidationError{Message: "request body must be valid JSON"}
	}
	return nil
}
