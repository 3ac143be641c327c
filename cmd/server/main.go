package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/konozo24/brokerx-backend/internal/adapter/marketdata/coingecko"
	"github.com/konozo24/brokerx-backend/internal/adapter/notify"
	"github.com/konozo24/brokerx-backend/internal/adapter/repository/postgres"
	"github.com/konozo24/brokerx-backend/internal/adapter/rest"
	"github.com/konozo24/brokerx-backend/internal/config"
	"github.com/konozo24/brokerx-backend/internal/domain"
	"github.com/konozo24/brokerx-backend/internal/usecase/account"
	"github.com/konozo24/brokerx-backend/internal/usecase/acctlock"
	"github.com/konozo24/brokerx-backend/internal/usecase/marketsync"
	"github.com/konozo24/brokerx-backend/internal/usecase/order"
	"github.com/konozo24/brokerx-backend/internal/usecase/portfolio"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// 1. Database
	db, err := postgres.NewDB(cfg.DBConnStr)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// 2. Repositories
	accountRepo := postgres.NewAccountRepository(db)
	walletRepo := postgres.NewWalletRepository(db)
	holdingRepo := postgres.NewHoldingRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	settlementRepo := postgres.NewSettlementRepository(db)

	// 3. Collaborators
	marketData := coingecko.NewClient(cfg.CoinGeckoBaseURL, cfg.CoinGeckoAPIKey, cfg.MarketDataTimeout)
	notifier := buildNotifier(cfg, logger)

	// 4. Services
	locks := acctlock.NewRegistry()
	accountSvc := account.NewService(accountRepo, logger)
	portfolioSvc := portfolio.NewService(accountRepo, walletRepo, holdingRepo, marketData, locks, logger)
	orderSvc := order.NewService(walletRepo, holdingRepo, orderRepo, settlementRepo, marketData, notifier, locks, logger)
	syncSvc := marketsync.NewService(accountRepo, holdingRepo, marketData, portfolioSvc, cfg.PriceSyncInterval, logger)

	// 5. Price sync loop
	syncCtx, cancelSync := context.WithCancel(context.Background())
	defer cancelSync()
	go syncSvc.Run(syncCtx)

	// 6. HTTP server
	auth := rest.NewTokenAuthenticator(cfg.APITokens)
	router := rest.NewRouter(accountSvc, portfolioSvc, orderSvc, marketData, auth, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("http server listening", zap.Int("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	waitForShutdown(server, cancelSync, cfg, logger)
}

// buildNotifier picks the notification sink: webhook when configured, the
// structured log otherwise, and a no-op sink when notifications are disabled.
func buildNotifier(cfg *config.Config, logger *zap.Logger) domain.Notifier {
	if !cfg.NotificationsEnabled {
		return notify.NopNotifier{}
	}
	if cfg.WebhookURL != "" {
		return notify.NewWebhookNotifier(cfg.WebhookURL, cfg.WebhookTimeout)
	}
	return notify.NewLogNotifier(logger)
}

// newLogger builds a production zap logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = lvl
	return zapCfg.Build()
}

// waitForShutdown waits for SIGTERM or SIGINT, stops the price sync loop and
// gracefully shuts down the HTTP server.
func waitForShutdown(server *http.Server, cancelSync context.CancelFunc, cfg *config.Config, logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down", zap.String("signal", sig.String()))

	cancelSync()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
