package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/konozo24/brokerx-backend/internal/domain"
	"github.com/konozo24/brokerx-backend/internal/usecase/acctlock"
)

// PlaceOrderInput represents the input for placing an order.
// Price is the quoted market price for the symbol, supplied from the market
// data feed rather than the client. PlaceMarketOrder quotes it server-side.
type PlaceOrderInput struct {
	UserID   uuid.UUID
	Symbol   string
	Side     domain.Side
	Quantity int64
	Price    decimal.Decimal
}

// Service is the order reconciler. Given a proposed order and the current
// wallet+holdings snapshot it decides admissibility, settles admitted orders
// atomically through the settlement repository, and appends the immutable
// order record. An order either settles for its full quantity or is rejected
// in full; there are no partial fills and no internal retries.
type Service struct {
	WalletRepo     domain.WalletRepository
	HoldingRepo    domain.HoldingRepository
	OrderRepo      domain.OrderRepository
	SettlementRepo domain.SettlementRepository
	MarketData     domain.MarketDataProvider
	Notifier       domain.Notifier

	locks  *acctlock.Registry
	logger *zap.Logger
}

// NewService creates a new order Service instance
func NewService(
	walletRepo domain.WalletRepository,
	holdingRepo domain.HoldingRepository,
	orderRepo domain.OrderRepository,
	settlementRepo domain.SettlementRepository,
	marketData domain.MarketDataProvider,
	notifier domain.Notifier,
	locks *acctlock.Registry,
	logger *zap.Logger,
) *Service {
	return &Service{
		WalletRepo:     walletRepo,
		HoldingRepo:    holdingRepo,
		OrderRepo:      orderRepo,
		SettlementRepo: settlementRepo,
		MarketData:     marketData,
		Notifier:       notifier,
		locks:          locks,
		logger:         logger,
	}
}

// PlaceMarketOrder quotes the current market price for the symbol and places
// the order at that price.
func (s *Service) PlaceMarketOrder(ctx context.Context, userID uuid.UUID, symbol string, side domain.Side, quantity int64) (*domain.Order, error) {
	price, err := s.MarketData.CurrentPrice(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to quote %s: %w", domain.NormalizeSymbol(symbol), err)
	}
	return s.PlaceOrder(ctx, PlaceOrderInput{
		UserID:   userID,
		Symbol:   symbol,
		Side:     side,
		Quantity: quantity,
		Price:    price,
	})
}

// PlaceOrder runs the admissibility check and, if the order is admitted,
// settles it: wallet debit/credit, holdings update and the order record
// commit together through the settlement repository. Business rejections
// (ErrInsufficientFunds, ErrInsufficientHoldings) are ordinary results; on
// any failure no ledger state has been mutated.
//
// The whole read-check-write sequence runs under the account's lock so that
// two concurrent placements can never both be admitted against the same
// stale snapshot.
func (s *Service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if input.Price.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}
	symbol := domain.NormalizeSymbol(input.Symbol)
	if symbol == "" {
		return nil, domain.ErrInvalidSymbol
	}
	if input.Side != domain.SideBuy && input.Side != domain.SideSell {
		return nil, domain.ErrUnknownSide
	}

	unlock := s.locks.Lock(input.UserID)
	defer unlock()

	// Consistent wallet+holdings pair: all writers hold the same lock.
	wallet, err := s.WalletRepo.Get(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	list, err := s.HoldingRepo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	holdings := domain.NewHoldings(list)

	order := &domain.Order{
		OrderID:   uuid.New(),
		UserID:    input.UserID,
		Symbol:    symbol,
		Side:      input.Side,
		Quantity:  input.Quantity,
		Price:     input.Price,
		Timestamp: time.Now().UTC(),
	}

	var holding *domain.Holding
	var removeHolding bool

	// A zero-priced order moves no cash but still settles.
	notional := order.Notional()

	switch input.Side {
	case domain.SideBuy:
		if notional.IsPositive() {
			if err := wallet.Debit(notional); err != nil {
				s.logger.Info("order rejected",
					zap.String("userID", input.UserID.String()),
					zap.String("symbol", symbol),
					zap.String("side", string(input.Side)),
					zap.Error(err))
				return nil, err
			}
		}
		holding, err = holdings.ApplyBuy(symbol, input.Quantity, input.Price)
		if err != nil {
			return nil, err
		}
	case domain.SideSell:
		holding, removeHolding, err = holdings.ApplySell(symbol, input.Quantity)
		if err != nil {
			s.logger.Info("order rejected",
				zap.String("userID", input.UserID.String()),
				zap.String("symbol", symbol),
				zap.String("side", string(input.Side)),
				zap.Error(err))
			return nil, err
		}
		if notional.IsPositive() {
			if err := wallet.Credit(notional); err != nil {
				return nil, err
			}
		}
	}

	if err := s.SettlementRepo.SettleOrder(ctx, input.UserID, wallet, holding, removeHolding, order); err != nil {
		// Nothing durable changed; the in-memory snapshot is discarded here.
		return nil, fmt.Errorf("failed to settle order: %w", err)
	}

	s.logger.Info("order settled",
		zap.String("orderID", order.OrderID.String()),
		zap.String("userID", input.UserID.String()),
		zap.String("symbol", symbol),
		zap.String("side", string(input.Side)),
		zap.Int64("quantity", input.Quantity),
		zap.String("price", input.Price.String()))

	s.notify(ctx, order)

	return order, nil
}

// notify dispatches the order-settled event. Best-effort: delivery failure is
// logged and never propagated, settlement stands regardless.
func (s *Service) notify(ctx context.Context, order *domain.Order) {
	n := domain.OrderNotification{
		UserID:    order.UserID,
		Side:      order.Side,
		Symbol:    order.Symbol,
		Quantity:  order.Quantity,
		Price:     order.Price,
		Timestamp: order.Timestamp,
	}
	if err := s.Notifier.NotifyOrderSettled(ctx, n); err != nil {
		s.logger.Warn("order notification failed",
			zap.String("orderID", order.OrderID.String()),
			zap.Error(err))
	}
}

// History returns the account's order records, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.OrderRepo.ListByUser(ctx, userID)
}
