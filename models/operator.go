package models

import "time"

// OperatorStatus represents the status of an operator account
type OperatorStatus string

const (
	OperatorStatusActive    OperatorStatus = "active"
	OperatorStatusInactive  OperatorStatus = "inactive"
	OperatorStatusSuspended OperatorStatus = "suspended"
)

// Operator represents a control-room operator account
type Operator struct {
	OperatorID   string         `json:"operatorId" dynamodbav:"operatorId"`
	Email        string         `json:"email" dynamodbav:"email"`
	Username     string         `json:"username" dynamodbav:"username"`
	PasswordHash string         `json:"-" dynamodbav:"passwordHash"`
	Status       OperatorStatus `json:"status" dynamodbav:"status"`
	Version      int64          `json:"version" dynamodbav:"version"`
	CreatedAt    time.Time      `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt" dynamodbav:"updatedAt"`
	LastLoginAt  *time.Time     `json:"lastLoginAt,omitempty" dynamodbav:"lastLoginAt,omitempty"`
}

// RegisterOperatorRequest is the payload for operator registration
type RegisterOperatorRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the payload for operator login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Operator  *Operator `json:"operator"`
}
