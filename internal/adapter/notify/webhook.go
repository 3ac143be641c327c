// Package notify implements the notification collaborator. Delivery is
// best-effort by contract: callers log failures and never roll back the
// settled order.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/konozo24/brokerx-backend/internal/domain"
)

// orderSettledEvent is the JSON payload posted for each settled order.
type orderSettledEvent struct {
	Event     string `json:"event"`
	UserID    string `json:"user_id"`
	Side      string `json:"side"`
	Symbol    string `json:"symbol"`
	Quantity  int64  `json:"quantity"`
	Price     string `json:"price"`
	Timestamp string `json:"timestamp"`
}

// WebhookNotifier posts order-settled events to a configured endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a webhook notifier targeting url.
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// NotifyOrderSettled posts the event. Any non-2xx response is an error; the
// caller decides what to do with it (by contract: log and move on).
func (n *WebhookNotifier) NotifyOrderSettled(ctx context.Context, notification domain.OrderNotification) error {
	event := orderSettledEvent{
		Event:     "order.settled",
		UserID:    notification.UserID.String(),
		Side:      string(notification.Side),
		Symbol:    notification.Symbol,
		Quantity:  notification.Quantity,
		Price:     notification.Price.String(),
		Timestamp: notification.Timestamp.UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notification delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
