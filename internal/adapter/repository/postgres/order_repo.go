package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

// orderRepository implements domain.OrderRepository. Orders are append-only;
// there are no UPDATE or DELETE statements in this file on purpose.
type orderRepository struct {
	db *DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

// Append persists a new immutable order record
func (r *orderRepository) Append(ctx context.Context, order *domain.Order) error {
	_, err := r.db.ExecContext(ctx, insertOrderQuery,
		order.OrderID,
		order.UserID,
		order.Symbol,
		string(order.Side),
		order.Quantity,
		order.Price.String(),
		order.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append order: %w", err)
	}
	return nil
}

// ListByUser retrieves a user's order history, newest first
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := `
		SELECT order_id, user_id, symbol, side, quantity, price, timestamp
		FROM orders
		WHERE user_id = $1
		ORDER BY timestamp DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		var side, priceStr string

		err := rows.Scan(
			&order.OrderID,
			&order.UserID,
			&order.Symbol,
			&side,
			&order.Quantity,
			&priceStr,
			&order.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse order price: %w", err)
		}
		order.Side = domain.Side(side)
		order.Price = price
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}

// insertOrderQuery is shared with the settlement repository so both paths
// write identical records.
const insertOrderQuery = `
	INSERT INTO orders (order_id, user_id, symbol, side, quantity, price, timestamp)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`
