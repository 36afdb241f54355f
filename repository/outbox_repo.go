package repository

import (
	"context"
	"disasterlink-backend/dal"
	"disasterlink-backend/models"
	"disasterlink-backend/utils"
	"disasterlink-backend/utils/logger"
	"errors"
	"sort"
	"time"
)

type OutboxRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewOutboxRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *OutboxRepository {
	return &OutboxRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *OutboxRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_sms_outbox"
}

func (r *OutboxRepository) Enqueue(ctx context.Context, message *models.OutboxMessage) (*models.OutboxMessage, error) {
	if message.Recipient == "" || message.Body == "" {
		return nil, errors.New("outbox message requires a recipient and a body")
	}

	now := time.Now()
	if message.MessageID == "" {
		message.MessageID = utils.GenerateUUID()
	}
	message.Status = models.OutboxStatusQueued
	message.ExpiresAt = now.Add(r.config.SMSOutboxTTL).Unix()
	message.Version = 1
	message.CreatedAt = now
	message.UpdatedAt = now

	if err := r.db.PutItem(ctx, r.tableName(), message); err != nil {
		r.logger.Errorf("Failed to enqueue SMS for %s: %v", message.Recipient, err)
		return nil, err
	}

	r.logger.Debugf("SMS queued: %s -> %s", message.MessageID, message.Recipient)
	return message, nil
}

// NextQueued returns the oldest message still in queued state, or
// ErrNotFound when the outbox is drained. Messages past their TTL are
// skipped even if DynamoDB has not reaped them yet.
func (r *OutboxRepository) NextQueued(ctx context.Context) (*models.OutboxMessage, error) {
	var messages []*models.OutboxMessage
	if err := r.db.QueryByIndex(ctx, r.tableName(), "status-index", "status", string(models.OutboxStatusQueued), &messages); err != nil {
		r.logger.Errorf("Failed to query queued SMS: %v", err)
		return nil, err
	}

	now := time.Now().Unix()
	var live []*models.OutboxMessage
	for _, m := range messages {
		if m.ExpiresAt > now {
			live = append(live, m)
		}
	}

	if len(live) == 0 {
		return nil, models.ErrNotFound
	}

	sort.Slice(live, func(i, j int) bool {
		return live[i].CreatedAt.Before(live[j].CreatedAt)
	})

	return live[0], nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, messageID string, expectedVersion int64) error {
	return r.setStatus(ctx, messageID, expectedVersion, models.OutboxStatusSent)
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, messageID string, expectedVersion int64) error {
	return r.setStatus(ctx, messageID, expectedVersion, models.OutboxStatusFailed)
}

func (r *OutboxRepository) setStatus(ctx context.Context, messageID string, expectedVersion int64, status models.OutboxStatus) error {
	if messageID == "" {
		return errors.New("message ID is required")
	}

	patch := map[string]interface{}{
		"status":    string(status),
		"updatedAt": time.Now(),
	}
	_, err := r.db.ConditionalUpdateItem(ctx, r.tableName(), "messageId", messageID, expectedVersion, patch)
	return err
}
