package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/konozo24/brokerx-backend/internal/domain"
	"github.com/konozo24/brokerx-backend/internal/usecase/account"
	"github.com/konozo24/brokerx-backend/internal/usecase/order"
	"github.com/konozo24/brokerx-backend/internal/usecase/portfolio"
)

// NewRouter builds the HTTP API. Account creation and health are open;
// everything else requires a bearer token resolved by auth.
func NewRouter(
	accountSvc *account.Service,
	portfolioSvc *portfolio.Service,
	orderSvc *order.Service,
	marketData domain.MarketDataProvider,
	auth *TokenAuthenticator,
	logger *zap.Logger,
) http.Handler {
	accountHandler := NewAccountHandler(accountSvc)
	portfolioHandler := NewPortfolioHandler(portfolioSvc)
	orderHandler := NewOrderHandler(orderSvc)
	marketHandler := NewMarketHandler(marketData)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/accounts", accountHandler.Create)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Get("/account", accountHandler.Get)
		r.Put("/account/bank-account", accountHandler.LinkBankAccount)
		r.Get("/account/watchlist", accountHandler.Watchlist)
		r.Put("/account/watchlist/{symbol}", accountHandler.WatchSymbol)
		r.Delete("/account/watchlist/{symbol}", accountHandler.UnwatchSymbol)

		r.Get("/wallet", portfolioHandler.GetWallet)
		r.Post("/wallet/deposits", portfolioHandler.Deposit)
		r.Post("/wallet/withdrawals", portfolioHandler.Withdraw)

		r.Get("/portfolio", portfolioHandler.GetSnapshot)

		r.Post("/orders", orderHandler.Place)
		r.Get("/orders", orderHandler.History)

		r.Get("/markets", marketHandler.List)
		r.Get("/markets/{symbol}/price", marketHandler.Price)
	})

	return r
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
