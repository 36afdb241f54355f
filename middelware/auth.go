package middelware

import (
	"disasterlink-backend/models"
	"disasterlink-backend/repository"
	"disasterlink-backend/utils/logger"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager issues and validates operator tokens. Revoked tokens go into an
// in-memory blacklist so a logout takes effect before the token expires.
type JWTManager struct {
	Config            *models.Config
	Logger            logger.Logger
	OperatorRepo      repository.OperatorRepositoryInterface
	BlacklistedTokens map[string]time.Time
	TokenMutex        sync.RWMutex
}

func NewJWTManager(cfg *models.Config, log logger.Logger, operatorRepo repository.OperatorRepositoryInterface) *JWTManager {
	return &JWTManager{
		Config:            cfg,
		Logger:            log,
		OperatorRepo:      operatorRepo,
		BlacklistedTokens: make(map[string]time.Time),
	}
}

// GenerateToken mints a signed HS256 token for an operator.
func (j *JWTManager) GenerateToken(operator *models.Operator) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(j.Config.JWTExpiresIn)

	claims := models.JWTClaims{
		OperatorID: operator.OperatorID,
		Email:      operator.Email,
		Username:   operator.Username,
		Status:     operator.Status,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   operator.OperatorID,
			Issuer:    j.Config.AppName,
			Audience:  jwt.ClaimStrings{j.Config.AppName},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.Config.JWTSecret))
	if err != nil {
		j.Logger.Errorf("Failed to sign JWT token: %v", err)
		return "", time.Time{}, err
	}

	j.Logger.Debugf("Issued token for operator %s", operator.OperatorID)
	return signed, expiresAt, nil
}

// ValidateToken parses a token, pins the signing algorithm and cross-checks
// the operator account state against the database.
func (j *JWTManager) ValidateToken(ctx *gin.Context, tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		} else if method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("invalid signing algorithm: %v", method.Alg())
		}
		return []byte(j.Config.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}

	j.TokenMutex.RLock()
	expiry, revoked := j.BlacklistedTokens[claims.ID]
	j.TokenMutex.RUnlock()
	if revoked && expiry.After(time.Now()) {
		return nil, fmt.Errorf("token has been revoked")
	}

	if j.OperatorRepo != nil {
		operator, err := j.OperatorRepo.GetOperator(ctx, claims.OperatorID)
		if err != nil {
			j.Logger.Errorf("Failed to verify operator %s: %v", claims.OperatorID, err)
			return nil, fmt.Errorf("operator verification failed")
		}
		if operator.Status != models.OperatorStatusActive {
			return nil, fmt.Errorf("operator account is %s", operator.Status)
		}
	}

	return claims, nil
}

// RevokeToken blacklists a token id until its natural expiry.
func (j *JWTManager) RevokeToken(tokenID string, expiry time.Time) {
	j.TokenMutex.Lock()
	defer j.TokenMutex.Unlock()
	j.BlacklistedTokens[tokenID] = expiry
	j.Logger.Debugf("Revoked token %s", tokenID)
}

// CleanupExpiredTokens drops blacklist entries whose tokens have expired
// anyway.
func (j *JWTManager) CleanupExpiredTokens() {
	j.TokenMutex.Lock()
	defer j.TokenMutex.Unlock()

	now := time.Now()
	for tokenID, expiry := range j.BlacklistedTokens {
		if expiry.Before(now) {
			delete(j.BlacklistedTokens, tokenID)
		}
	}
}

// AuthMiddleware validates the Bearer token and stores the operator claims
// on the request context.
func (j *JWTManager) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			j.abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			j.abortUnauthorized(c, "Authorization header must be in format: Bearer <token>")
			return
		}

		claims, err := j.ValidateToken(c, strings.TrimSpace(parts[1]))
		if err != nil {
			j.Logger.Warnf("Token validation failed: %v", err)
			j.abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set("operator_id", claims.OperatorID)
		c.Set("operator_username", claims.Username)
		c.Set("claims", claims)
		c.Next()
	}
}

func (j *JWTManager) abortUnauthorized(c *gin.Context, details string) {
	c.JSON(http.StatusUnauthorized, models.APIResponse{
		Status:  "error",
		Code:    http.StatusUnauthorized,
		Message: "Unauthorized",
		Error: &models.APIError{
			Type:    "AuthenticationError",
			Details: details,
		},
	})
	c.Abort()
}
