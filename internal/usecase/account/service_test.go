package account

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

// MockAccountRepository is a mock implementation of AccountRepository for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account, openingCash decimal.Decimal) error {
	args := m.Called(ctx, account, openingCash)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveBankAccount(ctx context.Context, userID uuid.UUID, bank domain.BankAccount) error {
	args := m.Called(ctx, userID, bank)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveWatchlist(ctx context.Context, userID uuid.UUID, symbols []string) error {
	args := m.Called(ctx, userID, symbols)
	return args.Error(0)
}

func (m *MockAccountRepository) WatchedSymbols(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestCreate_FundsAccountWithInitialCash(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	svc := NewService(repo, zap.NewNop())

	repo.On("Create", ctx, mock.MatchedBy(func(a *domain.Account) bool {
		return a.Email == "ana@example.com" && a.Username == "ana" && a.ID != uuid.Nil
	}), InitialCash).Return(nil)

	account, err := svc.Create(ctx, CreateAccountInput{Email: "ana@example.com", Username: "ana"})

	require.NoError(t, err)
	assert.Equal(t, "ana", account.Username)
	assert.Empty(t, account.Watchlist)
	assert.WithinDuration(t, time.Now().UTC(), account.CreatedAt, time.Minute)
	repo.AssertExpectations(t)
}

func TestCreate_RequiresEmailAndUsername(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	svc := NewService(repo, zap.NewNop())

	var vErr *domain.ValidationError

	_, err := svc.Create(ctx, CreateAccountInput{Username: "ana"})
	require.ErrorAs(t, err, &vErr)

	_, err = svc.Create(ctx, CreateAccountInput{Email: "ana@example.com"})
	require.ErrorAs(t, err, &vErr)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestLinkBankAccount_SavesDetails(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	svc := NewService(repo, zap.NewNop())
	userID := uuid.New()
	bank := domain.BankAccount{BankName: "Banco Alfa", AccountHolder: "Ana", AccountNumber: "0001-42"}

	repo.On("GetByID", ctx, userID).Return(&domain.Account{ID: userID}, nil)
	repo.On("SaveBankAccount", ctx, userID, bank).Return(nil)

	err := svc.LinkBankAccount(ctx, userID, bank)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestLinkBankAccount_ValidatesInput(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	svc := NewService(repo, zap.NewNop())

	var vErr *domain.ValidationError

	err := svc.LinkBankAccount(ctx, uuid.New(), domain.BankAccount{AccountNumber: "1"})
	require.ErrorAs(t, err, &vErr)

	err = svc.LinkBankAccount(ctx, uuid.New(), domain.BankAccount{BankName: "Banco Alfa"})
	require.ErrorAs(t, err, &vErr)
}

func TestLinkBankAccount_UnknownAccount(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	svc := NewService(repo, zap.NewNop())
	userID := uuid.New()

	repo.On("GetByID", ctx, userID).Return(nil, domain.ErrAccountNotFound)

	err := svc.LinkBankAccount(ctx, userID, domain.BankAccount{BankName: "Banco Alfa", AccountNumber: "1"})

	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	repo.AssertNotCalled(t, "SaveBankAccount", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddToWatchlist_NormalizesAndAppends(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	svc := NewService(repo, zap.NewNop())
	userID := uuid.New()

	repo.On("GetByID", ctx, userID).Return(&domain.Account{ID: userID, Watchlist: []string{"BTC"}}, nil)
	repo.On("SaveWatchlist", ctx, userID, []string{"BTC", "ETH"}).Return(nil)

	err := svc.AddToWatchlist(ctx, userID, " eth ")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAddToWatchlist_AlreadyWatchedIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	svc := NewService(repo, zap.NewNop())
	userID := uuid.New()

	repo.On("GetByID", ctx, userID).Return(&domain.Account{ID: userID, Watchlist: []string{"BTC"}}, nil)

	err := svc.AddToWatchlist(ctx, userID, "btc")

	require.NoError(t, err)
	repo.AssertNotCalled(t, "SaveWatchlist", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveFromWatchlist_DropsSymbol(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	svc := NewService(repo, zap.NewNop())
	userID := uuid.New()

	repo.On("GetByID", ctx, userID).Return(&domain.Account{ID: userID, Watchlist: []string{"BTC", "ETH"}}, nil)
	repo.On("SaveWatchlist", ctx, userID, []string{"BTC"}).Return(nil)

	err := svc.RemoveFromWatchlist(ctx, userID, "eth")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRemoveFromWatchlist_NotWatchedIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	svc := NewService(repo, zap.NewNop())
	userID := uuid.New()

	repo.On("GetByID", ctx, userID).Return(&domain.Account{ID: userID, Watchlist: []string{"BTC"}}, nil)

	err := svc.RemoveFromWatchlist(ctx, userID, "SOL")

	require.NoError(t, err)
	repo.AssertNotCalled(t, "SaveWatchlist", mock.Anything, mock.Anything, mock.Anything)
}

func TestWatchlist_RejectsBlankSymbol(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	svc := NewService(repo, zap.NewNop())

	err := svc.AddToWatchlist(ctx, uuid.New(), "   ")

	assert.ErrorIs(t, err, domain.ErrInvalidSymbol)
}
