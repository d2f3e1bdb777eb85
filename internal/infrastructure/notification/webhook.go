package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kivalao/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// eventSource identifies this service in outbound webhook payloads
const eventSource = "kivalao-api"

// redemptionPayload is the body posted to the redemption webhook
type redemptionPayload struct {
	TransactionID string    `json:"transactionId"`
	Code          string    `json:"code"`
	Source        string    `json:"source"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// WebhookNotifier delivers redemption events to a configured HTTP endpoint.
// Delivery is best effort: a single attempt, failures are logged and never
// surfaced to the caller, so a dead endpoint cannot fail a redemption.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWebhookNotifier creates a new webhook notifier. With an empty URL the
// notifier is disabled and NotifyRedemption becomes a no-op.
func NewWebhookNotifier(cfg config.WebhookConfig, logger *zap.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url: cfg.RedemptionURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// NotifyRedemption posts the redemption event to the configured endpoint
func (n *WebhookNotifier) NotifyRedemption(ctx context.Context, transactionID uuid.UUID, codeString string) {
	if n.url == "" {
		n.logger.Debug("Redemption webhook not configured, skipping delivery",
			zap.String("transaction_id", transactionID.String()))
		return
	}

	payload := redemptionPayload{
		TransactionID: transactionID.String(),
		Code:          codeString,
		Source:        eventSource,
		OccurredAt:    time.Now().UTC(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error("Failed to encode redemption webhook payload",
			zap.String("transaction_id", transactionID.String()),
			zap.Error(err))
		return
	}

	// Single attempt: a failed delivery is logged and dropped
	if err := n.deliver(ctx, body); err != nil {
		n.logger.Warn("Redemption webhook delivery failed",
			zap.String("transaction_id", transactionID.String()),
			zap.String("code", codeString),
			zap.Error(err))
		return
	}

	n.logger.Info("Redemption webhook delivered",
		zap.String("transaction_id", transactionID.String()),
		zap.String("code", codeString))
}

// deliver performs a single POST to the webhook endpoint
func (n *WebhookNotifier) deliver(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook endpoint unreachable: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
