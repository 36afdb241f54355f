package models

import "time"

// OutboxStatus tracks an outbound SMS through the outbox table.
type OutboxStatus string

const (
	OutboxStatusQueued OutboxStatus = "queued"
	OutboxStatusSent   OutboxStatus = "sent"
	OutboxStatusFailed OutboxStatus = "failed"
)

// OutboxMessage is one outbound SMS persisted in the sms_outbox table.
// ExpiresAt is a DynamoDB TTL attribute so stale messages age out of the
// table instead of accumulating the way an in-process queue would.
type OutboxMessage struct {
	MessageID string       `json:"messageId" dynamodbav:"messageId"`
	Recipient string       `json:"recipient" dynamodbav:"recipient"`
	Body      string       `json:"body" dynamodbav:"body"`
	Status    OutboxStatus `json:"status" dynamodbav:"status"`
	ExpiresAt int64        `json:"expiresAt" dynamodbav:"expiresAt"`
	Version   int64        `json:"version" dynamodbav:"version"`
	CreatedAt time.Time    `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt" dynamodbav:"updatedAt"`
}

type QueueSMSRequest struct {
	Number string `json:"number" validate:"required"`
	Msg    string `json:"msg" validate:"required,max=1600"`
}
