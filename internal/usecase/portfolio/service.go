package portfolio

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/konozo24/brokerx-backend/internal/domain"
	"github.com/konozo24/brokerx-backend/internal/usecase/acctlock"
)

// Snapshot is a point-in-time view of an account's wallet and holdings with
// the derived valuation attached.
type Snapshot struct {
	Wallet    *domain.Wallet
	Holdings  []*domain.Holding
	Valuation Valuation
}

// Service handles portfolio views, wallet deposits/withdrawals and the
// application of live price updates to persisted holdings.
type Service struct {
	AccountRepo domain.AccountRepository
	WalletRepo  domain.WalletRepository
	HoldingRepo domain.HoldingRepository
	MarketData  domain.MarketDataProvider

	locks  *acctlock.Registry
	logger *zap.Logger
}

// NewService creates a new portfolio Service instance
func NewService(
	accountRepo domain.AccountRepository,
	walletRepo domain.WalletRepository,
	holdingRepo domain.HoldingRepository,
	marketData domain.MarketDataProvider,
	locks *acctlock.Registry,
	logger *zap.Logger,
) *Service {
	return &Service{
		AccountRepo: accountRepo,
		WalletRepo:  walletRepo,
		HoldingRepo: holdingRepo,
		MarketData:  marketData,
		locks:       locks,
		logger:      logger,
	}
}

// GetSnapshot loads the account's wallet and holdings and computes the
// valuation. When refreshQuotes is true, current prices are fetched from the
// market-data collaborator and merged into the returned holdings in memory;
// persisted state is untouched; durable price refreshes are the price-sync
// loop's job. A quote failure degrades to the last persisted prices.
func (s *Service) GetSnapshot(ctx context.Context, userID uuid.UUID, refreshQuotes bool) (*Snapshot, error) {
	wallet, err := s.WalletRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := s.HoldingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	holdings := domain.NewHoldings(list)

	if refreshQuotes && holdings.Len() > 0 {
		symbols := make([]string, 0, holdings.Len())
		for _, h := range holdings.List() {
			symbols = append(symbols, h.Symbol)
		}
		prices, err := s.MarketData.CurrentPrices(ctx, symbols)
		if err != nil {
			s.logger.Warn("quote refresh failed, using persisted prices",
				zap.String("userID", userID.String()),
				zap.Error(err))
		} else {
			for symbol, price := range prices {
				holdings.UpdateMarketPrice(symbol, price)
			}
		}
	}

	listed := holdings.List()
	return &Snapshot{
		Wallet:    wallet,
		Holdings:  listed,
		Valuation: Valuate(wallet, listed),
	}, nil
}

// GetHolding returns the account's position in one symbol.
func (s *Service) GetHolding(ctx context.Context, userID uuid.UUID, symbol string) (*domain.Holding, error) {
	list, err := s.HoldingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	h, ok := domain.NewHoldings(list).Get(symbol)
	if !ok {
		return nil, domain.ErrHoldingNotFound
	}
	return h, nil
}

// Deposit credits cash from the linked bank account into the wallet.
// Blocked without a linked bank account or for non-positive amounts.
func (s *Service) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*domain.Wallet, error) {
	return s.moveCash(ctx, userID, amount, func(w *domain.Wallet, amt decimal.Decimal) error {
		return w.Credit(amt)
	})
}

// Withdraw debits cash from the wallet back to the linked bank account.
// Same guards as Deposit, plus ErrInsufficientFunds when the balance is short.
func (s *Service) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*domain.Wallet, error) {
	return s.moveCash(ctx, userID, amount, func(w *domain.Wallet, amt decimal.Decimal) error {
		return w.Debit(amt)
	})
}

func (s *Service) moveCash(
	ctx context.Context,
	userID uuid.UUID,
	amount decimal.Decimal,
	apply func(*domain.Wallet, decimal.Decimal) error,
) (*domain.Wallet, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	account, err := s.AccountRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account.BankAccount == nil {
		return nil, domain.ErrNoBankAccount
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	wallet, err := s.WalletRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := apply(wallet, amount); err != nil {
		return nil, err
	}
	if err := s.WalletRepo.Save(ctx, userID, wallet); err != nil {
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}

	s.logger.Info("wallet updated",
		zap.String("userID", userID.String()),
		zap.String("amount", amount.String()),
		zap.String("cash", wallet.Cash.String()))
	return wallet, nil
}

// ApplyPriceUpdate pushes one observed market price into every persisted
// position in the tick's symbol. Quantity, cost basis and wallets are never
// touched, so this is safe to run concurrently with order placement.
// Applying the same price twice is a no-op. Ticks for symbols nobody holds
// are silently ignored.
func (s *Service) ApplyPriceUpdate(ctx context.Context, tick domain.PriceTick) error {
	if tick.Price.IsNegative() {
		return domain.ErrInvalidPrice
	}
	symbol := domain.NormalizeSymbol(tick.Symbol)
	if symbol == "" {
		return domain.ErrInvalidSymbol
	}

	if err := s.HoldingRepo.UpdateCurrentPrice(ctx, symbol, tick.Price); err != nil {
		return fmt.Errorf("failed to update current price for %s: %w", symbol, err)
	}
	return nil
}
