package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the JWT claims issued to operators
type JWTClaims struct {
	OperatorID string         `json:"operator_id"`
	Email      string         `json:"email"`
	Username   string         `json:"username"`
	Status     OperatorStatus `json:"status"`

	jwt.RegisteredClaims
}
