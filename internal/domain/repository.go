package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account persistence operations
type AccountRepository interface {
	// Create creates a new account with its opening cash balance
	Create(ctx context.Context, account *Account, openingCash decimal.Decimal) error

	// GetByID retrieves an account by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// SaveBankAccount links or replaces the account's bank details
	SaveBankAccount(ctx context.Context, userID uuid.UUID, bank BankAccount) error

	// SaveWatchlist replaces the account's watchlist
	SaveWatchlist(ctx context.Context, userID uuid.UUID, symbols []string) error

	// WatchedSymbols returns the distinct symbols watched by any account
	WatchedSymbols(ctx context.Context) ([]string, error)
}

// WalletRepository defines the interface for wallet persistence operations
type WalletRepository interface {
	// Get retrieves the wallet for a user
	Get(ctx context.Context, userID uuid.UUID) (*Wallet, error)

	// Save persists the wallet's cash balance
	Save(ctx context.Context, userID uuid.UUID, wallet *Wallet) error
}

// HoldingRepository defines the interface for holdings persistence operations
type HoldingRepository interface {
	// ListByUser retrieves all open positions for a user
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Holding, error)

	// Save upserts a single holding
	Save(ctx context.Context, userID uuid.UUID, holding *Holding) error

	// Delete removes a fully closed position
	Delete(ctx context.Context, userID uuid.UUID, symbol string) error

	// UpdateCurrentPrice sets the observed market price on every position in
	// the given symbol, across all accounts. Touches only the current price
	// column, so it may run concurrently with order settlement.
	UpdateCurrentPrice(ctx context.Context, symbol string, price decimal.Decimal) error

	// DistinctSymbols returns the distinct symbols held by any account
	DistinctSymbols(ctx context.Context) ([]string, error)
}

// OrderRepository defines the interface for order history persistence.
// Order records are append-only: there are no update or delete operations.
type OrderRepository interface {
	// Append persists a new immutable order record
	Append(ctx context.Context, order *Order) error

	// ListByUser retrieves a user's order history, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Order, error)
}

// SettlementRepository commits an admitted order's effects in a single
// storage transaction: the wallet balance, the holding upsert (or delete on a
// full close) and the order record land together or not at all. If the commit
// fails, no ledger state may be considered mutated.
type SettlementRepository interface {
	SettleOrder(ctx context.Context, userID uuid.UUID, wallet *Wallet, holding *Holding, removeHolding bool, order *Order) error
}
