package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

// settlementRepository implements domain.SettlementRepository
type settlementRepository struct {
	db *DB
}

// NewSettlementRepository creates a new settlement repository
func NewSettlementRepository(db *DB) domain.SettlementRepository {
	return &settlementRepository{db: db}
}

// SettleOrder commits an admitted order's effects in one database
// transaction: the wallet balance, the holding upsert (or delete on a full
// close) and the order record land together or not at all.
func (r *settlementRepository) SettleOrder(
	ctx context.Context,
	userID uuid.UUID,
	wallet *domain.Wallet,
	holding *domain.Holding,
	removeHolding bool,
	order *domain.Order,
) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	// Wallet balance
	res, err := dbTx.ExecContext(ctx,
		`UPDATE accounts SET cash = $2 WHERE id = $1`,
		userID, wallet.Cash.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update cash: %w", err)
	}
	if err := requireOneRow(res, domain.ErrAccountNotFound); err != nil {
		return err
	}

	// Holding upsert or removal
	if removeHolding {
		_, err = dbTx.ExecContext(ctx,
			`DELETE FROM holdings WHERE user_id = $1 AND symbol = $2`,
			userID, order.Symbol,
		)
		if err != nil {
			return fmt.Errorf("failed to delete holding: %w", err)
		}
	} else {
		_, err = dbTx.ExecContext(ctx, `
			INSERT INTO holdings (user_id, symbol, quantity, avg_purchase_price, current_price)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, symbol) DO UPDATE
			SET quantity = EXCLUDED.quantity,
			    avg_purchase_price = EXCLUDED.avg_purchase_price,
			    current_price = EXCLUDED.current_price
		`,
			userID,
			holding.Symbol,
			holding.Quantity,
			holding.AvgPurchasePrice.String(),
			holding.CurrentPrice.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert holding: %w", err)
		}
	}

	// Order record
	_, err = dbTx.ExecContext(ctx, insertOrderQuery,
		order.OrderID,
		order.UserID,
		order.Symbol,
		string(order.Side),
		order.Quantity,
		order.Price.String(),
		order.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}
	return nil
}
