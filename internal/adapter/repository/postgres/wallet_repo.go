package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

// walletRepository implements domain.WalletRepository.
// The cash balance lives on the account row, mirroring the one-wallet-per-
// account ownership.
type walletRepository struct {
	db *DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *DB) domain.WalletRepository {
	return &walletRepository{db: db}
}

// Get retrieves the wallet for a user
func (r *walletRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT cash FROM accounts WHERE id = $1`

	var cashStr string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&cashStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	cash, err := decimal.NewFromString(cashStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cash: %w", err)
	}
	return domain.NewWallet(cash), nil
}

// Save persists the wallet's cash balance
func (r *walletRepository) Save(ctx context.Context, userID uuid.UUID, wallet *domain.Wallet) error {
	query := `UPDATE accounts SET cash = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, userID, wallet.Cash.String())
	if err != nil {
		return fmt.Errorf("failed to save wallet: %w", err)
	}
	return requireOneRow(res, domain.ErrAccountNotFound)
}
