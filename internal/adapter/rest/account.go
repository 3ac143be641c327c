package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/konozo24/brokerx-backend/internal/domain"
	"github.com/konozo24/brokerx-backend/internal/usecase/account"
)

// AccountHandler handles HTTP requests for account endpoints.
type AccountHandler struct {
	accountSvc *account.Service
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc *account.Service) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

type createAccountRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type bankAccountRequest struct {
	BankName      string `json:"bank_name"`
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
}

type bankAccountResponse struct {
	BankName      string `json:"bank_name"`
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
}

type accountResponse struct {
	ID          string               `json:"id"`
	Email       string               `json:"email"`
	Username    string               `json:"username"`
	BankAccount *bankAccountResponse `json:"bank_account"`
	Watchlist   []string             `json:"watchlist"`
	CreatedAt   string               `json:"created_at"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	resp := accountResponse{
		ID:        a.ID.String(),
		Email:     a.Email,
		Username:  a.Username,
		Watchlist: a.Watchlist,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	if resp.Watchlist == nil {
		resp.Watchlist = []string{}
	}
	if a.BankAccount != nil {
		resp.BankAccount = &bankAccountResponse{
			BankName:      a.BankAccount.BankName,
			AccountHolder: a.BankAccount.AccountHolder,
			AccountNumber: a.BankAccount.AccountNumber,
		}
	}
	return resp
}

// Create handles POST /accounts
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	acct, err := h.accountSvc.Create(r.Context(), account.CreateAccountInput{
		Email:    req.Email,
		Username: req.Username,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountResponse(acct))
}

// Get handles GET /account
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Message: "missing user"})
		return
	}

	acct, err := h.accountSvc.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(acct))
}

// LinkBankAccount handles PUT /account/bank-account
func (h *AccountHandler) LinkBankAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Message: "missing user"})
		return
	}

	var req bankAccountRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := h.accountSvc.LinkBankAccount(r.Context(), userID, domain.BankAccount{
		BankName:      req.BankName,
		AccountHolder: req.AccountHolder,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Watchlist handles GET /account/watchlist
func (h *AccountHandler) Watchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Message: "missing user"})
		return
	}

	symbols, err := h.accountSvc.Watchlist(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if symbols == nil {
		symbols = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"symbols": symbols})
}

// WatchSymbol handles PUT /account/watchlist/{symbol}
func (h *AccountHandler) WatchSymbol(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Message: "missing user"})
		return
	}

	if err := h.accountSvc.AddToWatchlist(r.Context(), userID, chi.URLParam(r, "symbol")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnwatchSymbol handles DELETE /account/watchlist/{symbol}
func (h *AccountHandler) UnwatchSymbol(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Message: "missing user"})
		return
	}

	if err := h.accountSvc.RemoveFromWatchlist(r.Context(), userID, chi.URLParam(r, "symbol")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
