package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

// LogNotifier writes order-settled events to the structured log. Used when
// no webhook endpoint is configured, and as the disabled-notifications sink.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyOrderSettled logs the event. Never fails.
func (n *LogNotifier) NotifyOrderSettled(_ context.Context, notification domain.OrderNotification) error {
	n.logger.Info("order settled notification",
		zap.String("userID", notification.UserID.String()),
		zap.String("side", string(notification.Side)),
		zap.String("symbol", notification.Symbol),
		zap.Int64("quantity", notification.Quantity),
		zap.String("price", notification.Price.String()))
	return nil
}

// NopNotifier drops all notifications. Used when notifications are disabled.
type NopNotifier struct{}

// NotifyOrderSettled discards the event.
func (NopNotifier) NotifyOrderSettled(context.Context, domain.OrderNotification) error {
	return nil
}
