package domain

import (
	"time"

	"github.com/google/uuid"
)

// BankAccount holds the external bank details linked to an account.
// Deposits and withdrawals are blocked until one is linked.
type BankAccount struct {
	BankName      string
	AccountHolder string
	AccountNumber string
}

// Account is the aggregate root identified by the authentication
// collaborator's user identifier. It exclusively owns its Wallet, Holdings set
// and append-only Order history; nothing else holds a mutable reference to
// them.
type Account struct {
	ID          uuid.UUID
	Email       string
	Username    string
	BankAccount *BankAccount // nil until linked
	Watchlist   []string     // normalized symbols
	CreatedAt   time.Time
}

// Watches reports whether symbol is on the account's watchlist.
func (a *Account) Watches(symbol string) bool {
	key := NormalizeSymbol(symbol)
	for _, s := range a.Watchlist {
		if s == key {
			return true
		}
	}
	return false
}
