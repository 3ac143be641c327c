package account

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

// InitialCash is the demo opening balance credited to every new account.
var InitialCash = decimal.NewFromInt(1_000_000)

// CreateAccountInput represents the input for opening an account
type CreateAccountInput struct {
	Email    string
	Username string
}

// Service handles account lifecycle operations: creation, bank account
// linking and watchlist management.
type Service struct {
	AccountRepo domain.AccountRepository
	logger      *zap.Logger
}

// NewService creates a new account Service instance
func NewService(accountRepo domain.AccountRepository, logger *zap.Logger) *Service {
	return &Service{AccountRepo: accountRepo, logger: logger}
}

// Create opens a new account funded with the initial cash balance.
func (s *Service) Create(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if input.Email == "" {
		return nil, &domain.ValidationError{Message: "email is required"}
	}
	if input.Username == "" {
		return nil, &domain.ValidationError{Message: "username is required"}
	}

	account := &domain.Account{
		ID:        uuid.New(),
		Email:     input.Email,
		Username:  input.Username,
		Watchlist: []string{},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.AccountRepo.Create(ctx, account, InitialCash); err != nil {
		return nil, err
	}

	s.logger.Info("account created",
		zap.String("userID", account.ID.String()),
		zap.String("username", account.Username))
	return account, nil
}

// Get retrieves an account by ID.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	return s.AccountRepo.GetByID(ctx, userID)
}

// LinkBankAccount attaches external bank details to the account. Deposits and
// withdrawals stay blocked until this has happened.
func (s *Service) LinkBankAccount(ctx context.Context, userID uuid.UUID, bank domain.BankAccount) error {
	if bank.BankName == "" {
		return &domain.ValidationError{Message: "bank name is required"}
	}
	if bank.AccountNumber == "" {
		return &domain.ValidationError{Message: "account number is required"}
	}

	if _, err := s.AccountRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := s.AccountRepo.SaveBankAccount(ctx, userID, bank); err != nil {
		return err
	}

	s.logger.Info("bank account linked",
		zap.String("userID", userID.String()),
		zap.String("bank", bank.BankName))
	return nil
}

// AddToWatchlist puts a symbol on the account's watchlist. Adding a symbol
// that is already watched is a no-op.
func (s *Service) AddToWatchlist(ctx context.Context, userID uuid.UUID, symbol string) error {
	key := domain.NormalizeSymbol(symbol)
	if key == "" {
		return domain.ErrInvalidSymbol
	}

	account, err := s.AccountRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if account.Watches(key) {
		return nil
	}

	return s.AccountRepo.SaveWatchlist(ctx, userID, append(account.Watchlist, key))
}

// RemoveFromWatchlist drops a symbol from the account's watchlist. Removing a
// symbol that is not watched is a no-op.
func (s *Service) RemoveFromWatchlist(ctx context.Context, userID uuid.UUID, symbol string) error {
	key := domain.NormalizeSymbol(symbol)
	if key == "" {
		return domain.ErrInvalidSymbol
	}

	account, err := s.AccountRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !account.Watches(key) {
		return nil
	}

	kept := make([]string, 0, len(account.Watchlist))
	for _, sym := range account.Watchlist {
		if sym != key {
			kept = append(kept, sym)
		}
	}
	return s.AccountRepo.SaveWatchlist(ctx, userID, kept)
}

// Watchlist returns the account's watched symbols.
func (s *Service) Watchlist(ctx context.Context, userID uuid.UUID) ([]string, error) {
	account, err := s.AccountRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return account.Watchlist, nil
}
