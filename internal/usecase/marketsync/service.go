// Package marketsync runs the live price sync loop: it periodically polls
// the market-data collaborator for every symbol anyone holds or watches and
// pushes the observed prices into the holdings ledger. It never touches
// wallets, quantities or cost bases.
package marketsync

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

// PriceApplier receives observed price ticks. Implemented by the portfolio
// service.
type PriceApplier interface {
	ApplyPriceUpdate(ctx context.Context, tick domain.PriceTick) error
}

// Service polls market prices on a fixed interval.
type Service struct {
	AccountRepo domain.AccountRepository
	HoldingRepo domain.HoldingRepository
	MarketData  domain.MarketDataProvider

	applier  PriceApplier
	interval time.Duration
	logger   *zap.Logger
}

// NewService creates a new marketsync Service instance
func NewService(
	accountRepo domain.AccountRepository,
	holdingRepo domain.HoldingRepository,
	marketData domain.MarketDataProvider,
	applier PriceApplier,
	interval time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		AccountRepo: accountRepo,
		HoldingRepo: holdingRepo,
		MarketData:  marketData,
		applier:     applier,
		interval:    interval,
		logger:      logger,
	}
}

// Run polls until ctx is cancelled. One sync happens immediately on start.
// Individual sync failures are logged and the loop keeps going.
func (s *Service) Run(ctx context.Context) {
	s.logger.Info("price sync started", zap.Duration("interval", s.interval))

	if err := s.SyncOnce(ctx); err != nil {
		s.logger.Warn("price sync failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("price sync stopped")
			return
		case <-ticker.C:
			if err := s.SyncOnce(ctx); err != nil {
				s.logger.Warn("price sync failed", zap.Error(err))
			}
		}
	}
}

// SyncOnce fetches current prices for the union of held and watched symbols
// and applies each tick. Symbols the provider does not know are skipped.
func (s *Service) SyncOnce(ctx context.Context) error {
	symbols, err := s.trackedSymbols(ctx)
	if err != nil {
		return err
	}
	if len(symbols) == 0 {
		return nil
	}

	prices, err := s.MarketData.CurrentPrices(ctx, symbols)
	if err != nil {
		return err
	}

	for _, symbol := range symbols {
		price, ok := prices[symbol]
		if !ok {
			continue
		}
		tick := domain.PriceTick{Symbol: symbol, Price: price}
		if err := s.applier.ApplyPriceUpdate(ctx, tick); err != nil {
			s.logger.Warn("failed to apply price tick",
				zap.String("symbol", symbol),
				zap.Error(err))
		}
	}

	s.logger.Debug("price sync complete",
		zap.Int("symbols", len(symbols)),
		zap.Int("quoted", len(prices)))
	return nil
}

// trackedSymbols returns the sorted union of symbols held by or watched by
// any account.
func (s *Service) trackedSymbols(ctx context.Context) ([]string, error) {
	held, err := s.HoldingRepo.DistinctSymbols(ctx)
	if err != nil {
		return nil, err
	}
	watched, err := s.AccountRepo.WatchedSymbols(ctx)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(held)+len(watched))
	for _, sym := range held {
		set[domain.NormalizeSymbol(sym)] = struct{}{}
	}
	for _, sym := range watched {
		set[domain.NormalizeSymbol(sym)] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for sym := range set {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out, nil
}
