package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	db *DB
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *DB) domain.HoldingRepository {
	return &holdingRepository{db: db}
}

// ListByUser retrieves all open positions for a user
func (r *holdingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Holding, error) {
	query := `
		SELECT symbol, quantity, avg_purchase_price, current_price
		FROM holdings
		WHERE user_id = $1
		ORDER BY symbol
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	var holdings []*domain.Holding
	for rows.Next() {
		holding, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, holding)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}
	return holdings, nil
}

// Save upserts a single holding
func (r *holdingRepository) Save(ctx context.Context, userID uuid.UUID, holding *domain.Holding) error {
	query := `
		INSERT INTO holdings (user_id, symbol, quantity, avg_purchase_price, current_price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, symbol) DO UPDATE
		SET quantity = EXCLUDED.quantity,
		    avg_purchase_price = EXCLUDED.avg_purchase_price,
		    current_price = EXCLUDED.current_price
	`

	_, err := r.db.ExecContext(ctx, query,
		userID,
		holding.Symbol,
		holding.Quantity,
		holding.AvgPurchasePrice.String(),
		holding.CurrentPrice.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save holding: %w", err)
	}
	return nil
}

// Delete removes a fully closed position
func (r *holdingRepository) Delete(ctx context.Context, userID uuid.UUID, symbol string) error {
	query := `DELETE FROM holdings WHERE user_id = $1 AND symbol = $2`

	_, err := r.db.ExecContext(ctx, query, userID, domain.NormalizeSymbol(symbol))
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return nil
}

// UpdateCurrentPrice sets the observed market price on every position in the
// given symbol, across all accounts. A single-column update, so it can run
// concurrently with order settlement without full-ledger locking.
func (r *holdingRepository) UpdateCurrentPrice(ctx context.Context, symbol string, price decimal.Decimal) error {
	query := `UPDATE holdings SET current_price = $2 WHERE symbol = $1`

	_, err := r.db.ExecContext(ctx, query, domain.NormalizeSymbol(symbol), price.String())
	if err != nil {
		return fmt.Errorf("failed to update current price: %w", err)
	}
	return nil
}

// DistinctSymbols returns the distinct symbols held by any account
func (r *holdingRepository) DistinctSymbols(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT symbol FROM holdings`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate symbols: %w", err)
	}
	return symbols, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanHolding reads one holdings row (without user_id)
func scanHolding(row rowScanner) (*domain.Holding, error) {
	var holding domain.Holding
	var avgStr, currentStr string

	if err := row.Scan(&holding.Symbol, &holding.Quantity, &avgStr, &currentStr); err != nil {
		return nil, fmt.Errorf("failed to scan holding: %w", err)
	}

	avg, err := decimal.NewFromString(avgStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse avg_purchase_price: %w", err)
	}
	current, err := decimal.NewFromString(currentStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current_price: %w", err)
	}

	holding.AvgPurchasePrice = avg
	holding.CurrentPrice = current
	return &holding, nil
}
