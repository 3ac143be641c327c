package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

func sampleNotification() domain.OrderNotification {
	return domain.OrderNotification{
		UserID:    uuid.New(),
		Side:      domain.SideBuy,
		Symbol:    "BTC",
		Quantity:  2,
		Price:     decimal.NewFromInt(65000),
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWebhookNotifier_PostsEvent(t *testing.T) {
	var got orderSettledEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	n := sampleNotification()
	err := NewWebhookNotifier(srv.URL, 5*time.Second).NotifyOrderSettled(context.Background(), n)

	require.NoError(t, err)
	assert.Equal(t, "order.settled", got.Event)
	assert.Equal(t, n.UserID.String(), got.UserID)
	assert.Equal(t, "BUY", got.Side)
	assert.Equal(t, "BTC", got.Symbol)
	assert.Equal(t, int64(2), got.Quantity)
	assert.Equal(t, "65000", got.Price)
	assert.Equal(t, "2026-08-01T12:00:00Z", got.Timestamp)
}

func TestWebhookNotifier_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	err := NewWebhookNotifier(srv.URL, 5*time.Second).NotifyOrderSettled(context.Background(), sampleNotification())

	assert.Error(t, err)
}

func TestWebhookNotifier_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	err := NewWebhookNotifier(srv.URL, time.Second).NotifyOrderSettled(context.Background(), sampleNotification())

	assert.Error(t, err)
}

func TestLogAndNopNotifiers_NeverFail(t *testing.T) {
	n := sampleNotification()

	assert.NoError(t, NewLogNotifier(zap.NewNop()).NotifyOrderSettled(context.Background(), n))
	assert.NoError(t, NopNotifier{}.NotifyOrderSettled(context.Background(), n))
}
