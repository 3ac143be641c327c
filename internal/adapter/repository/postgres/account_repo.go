package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	db *DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *DB) domain.AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new account row carrying the opening cash balance
func (r *accountRepository) Create(ctx context.Context, account *domain.Account, openingCash decimal.Decimal) error {
	query := `
		INSERT INTO accounts (id, email, username, cash, watchlist, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.Username,
		openingCash.String(),
		pq.Array(account.Watchlist),
		account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, email, username, bank_name, bank_account_holder, bank_account_number, watchlist, created_at
		FROM accounts
		WHERE id = $1
	`

	var account domain.Account
	var bankName, bankHolder, bankNumber sql.NullString
	var watchlist pq.StringArray

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.Email,
		&account.Username,
		&bankName,
		&bankHolder,
		&bankNumber,
		&watchlist,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}

	if bankName.Valid {
		account.BankAccount = &domain.BankAccount{
			BankName:      bankName.String,
			AccountHolder: bankHolder.String,
			AccountNumber: bankNumber.String,
		}
	}
	account.Watchlist = []string(watchlist)

	return &account, nil
}

// SaveBankAccount links or replaces the account's bank details
func (r *accountRepository) SaveBankAccount(ctx context.Context, userID uuid.UUID, bank domain.BankAccount) error {
	query := `
		UPDATE accounts
		SET bank_name = $2, bank_account_holder = $3, bank_account_number = $4
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, userID, bank.BankName, bank.AccountHolder, bank.AccountNumber)
	if err != nil {
		return fmt.Errorf("failed to save bank account: %w", err)
	}
	return requireOneRow(res, domain.ErrAccountNotFound)
}

// SaveWatchlist replaces the account's watchlist
func (r *accountRepository) SaveWatchlist(ctx context.Context, userID uuid.UUID, symbols []string) error {
	query := `UPDATE accounts SET watchlist = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, userID, pq.Array(symbols))
	if err != nil {
		return fmt.Errorf("failed to save watchlist: %w", err)
	}
	return requireOneRow(res, domain.ErrAccountNotFound)
}

// WatchedSymbols returns the distinct symbols watched by any account
func (r *accountRepository) WatchedSymbols(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT unnest(watchlist) FROM accounts`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list watched symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan watched symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watched symbols: %w", err)
	}
	return symbols, nil
}

// requireOneRow translates a zero-row update into notFound.
func requireOneRow(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
