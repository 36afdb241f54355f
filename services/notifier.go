package services

import (
	"bytes"
	"context"
	"disasterlink-backend/models"
	"disasterlink-backend/repository"
	"disasterlink-backend/utils"
	"disasterlink-backend/utils/logger"
	"encoding/json"
	"fmt"
	"net/http"
)

// Dispatcher delivers a message to a set of phone numbers. Delivery is
// best-effort: callers record failures as warnings and never roll back
// committed state because of one.
type Dispatcher interface {
	Send(ctx context.Context, recipients []string, body string) error
}

// NotificationService persists every outbound SMS in the outbox table, then
// attempts immediate delivery through Telnyx when an API key is configured.
// Undelivered messages stay queued for the gateway poller until their TTL.
type NotificationService struct {
	outbox repository.OutboxRepositoryInterface
	config *models.Config
	logger logger.Logger
	client *http.Client
}

func NewNotificationService(outbox repository.OutboxRepositoryInterface, cfg *models.Config, log logger.Logger) *NotificationService {
	return &NotificationService{
		outbox: outbox,
		config: cfg,
		logger: log,
		client: &http.Client{Timeout: cfg.NotificationTimeout},
	}
}

func (n *NotificationService) Send(ctx context.Context, recipients []string, body string) error {
	var firstErr error

	for _, recipient := range recipients {
		msg, err := n.outbox.Enqueue(ctx, &models.OutboxMessage{
			Recipient: utils.NormalizePhone(recipient),
			Body:      body,
		})
		if err != nil {
			n.logger.Errorf("Failed to queue SMS for %s: %v", recipient, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if n.config.TelnyxAPIKey == "" {
			continue
		}

		if err := n.sendViaTelnyx(ctx, msg.Recipient, body); err != nil {
			n.logger.Warnf("Telnyx delivery to %s failed, message stays queued: %v", recipient, err)
			continue
		}

		if err := n.outbox.MarkSent(ctx, msg.MessageID, msg.Version); err != nil {
			n.logger.Warnf("Failed to mark SMS %s sent: %v", msg.MessageID, err)
		}
	}

	return firstErr
}

func (n *NotificationService) sendViaTelnyx(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(map[string]string{
		"from": n.config.TelnyxFromNumber,
		"to":   "+" + to,
		"text": body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.config.TelnyxMessageURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.config.TelnyxAPIKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("telnyx returned status %d", resp.StatusCode)
	}

	return nil
}
