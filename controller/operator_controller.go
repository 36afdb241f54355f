package controller

import (
	"context"
	"disasterlink-backend/middelware"
	"disasterlink-backend/models"
	"disasterlink-backend/services"
	"disasterlink-backend/utils/logger"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type OperatorController struct {
	ctx             context.Context
	operatorService services.OperatorServiceInterface
	jwtManager      *middelware.JWTManager
	logger          logger.Logger
	validator       *validator.Validate
}

func NewOperatorController(ctx context.Context, operatorService services.OperatorServiceInterface, jwtManager *middelware.JWTManager, log logger.Logger) *OperatorController {
	return &OperatorController{
		ctx:             ctx,
		operatorService: operatorService,
		jwtManager:      jwtManager,
		logger:          log,
		validator:       validator.New(),
	}
}

// Register handles POST /api/v1/auth/register
func (h *OperatorController) Register(c *gin.Context) {
	var req models.RegisterOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, formatValidationErrors(err))
		return
	}

	operator, err := h.operatorService.Register(h.ctx, &req)
	if err != nil {
		h.logger.Error("Failed to register operator", err)
		respondError(c, err, "Failed to register operator")
		return
	}

	respondSuccess(c, http.StatusCreated, "Operator registered successfully", operator)
}

// Login handles POST /api/v1/auth/login
func (h *OperatorController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, formatValidationErrors(err))
		return
	}

	response, err := h.operatorService.Login(h.ctx, &req)
	if err != nil {
		h.logger.Warnf("Login failed for %s: %v", req.Username, err)
		c.JSON(http.StatusUnauthorized, models.APIResponse{
			Status:  "error",
			Code:    http.StatusUnauthorized,
			Message: "Login failed",
			Error:   &models.APIError{Type: "AuthenticationError", Details: "invalid credentials"},
		})
		return
	}

	respondSuccess(c, http.StatusOK, "Login successful", response)
}

// Validate handles POST /api/v1/auth/validate
func (h *OperatorController) Validate(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		respondBadRequest(c, "Authorization header must be in format: Bearer <token>")
		return
	}

	claims, err := h.jwtManager.ValidateToken(c, strings.TrimSpace(parts[1]))
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.APIResponse{
			Status:  "error",
			Code:    http.StatusUnauthorized,
			Message: "Token is invalid",
			Error:   &models.APIError{Type: "AuthenticationError", Details: err.Error()},
		})
		return
	}

	respondSuccess(c, http.StatusOK, "Token is valid", claims)
}

// Logout handles POST /api/v1/auth/logout
func (h *OperatorController) Logout(c *gin.Context) {
	raw, exists := c.Get("claims")
	if !exists {
		respondBadRequest(c, "no authenticated session")
		return
	}

	claims, ok := raw.(*models.JWTClaims)
	if !ok || claims.ExpiresAt == nil {
		respondBadRequest(c, "invalid token claims")
		return
	}

	h.jwtManager.RevokeToken(claims.ID, claims.ExpiresAt.Time)
	respondSuccess(c, http.StatusOK, "Logged out", nil)
}
