package services

import (
	"context"
	"disasterlink-backend/models"
	"disasterlink-backend/repository"
	"disasterlink-backend/utils"
	"disasterlink-backend/utils/logger"
	"errors"
	"fmt"
	"time"
)

// TokenIssuer mints a signed token for an operator. Implemented by the JWT
// manager in the middleware layer.
type TokenIssuer interface {
	GenerateToken(operator *models.Operator) (string, time.Time, error)
}

type OperatorService struct {
	operators repository.OperatorRepositoryInterface
	issuer    TokenIssuer
	logger    logger.Logger
}

func NewOperatorService(operators repository.OperatorRepositoryInterface, issuer TokenIssuer, log logger.Logger) *OperatorService {
	return &OperatorService{
		operators: operators,
		issuer:    issuer,
		logger:    log,
	}
}

func (s *OperatorService) Register(ctx context.Context, req *models.RegisterOperatorRequest) (*models.Operator, error) {
	existing, err := s.operators.GetOperatorByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("username %s is taken: %w", req.Username, models.ErrInvalidState)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.logger.Errorf("Failed to hash password: %v", err)
		return nil, err
	}

	operator := &models.Operator{
		OperatorID:   utils.GenerateUUID(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Status:       models.OperatorStatusActive,
	}

	return s.operators.CreateOperator(ctx, operator)
}

func (s *OperatorService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	operator, err := s.operators.GetOperatorByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", models.ErrInvalidState)
		}
		return nil, err
	}

	if operator.Status != models.OperatorStatusActive {
		return nil, fmt.Errorf("operator account is %s: %w", operator.Status, models.ErrInvalidState)
	}

	if !utils.CheckPassword(operator.PasswordHash, req.Password) {
		s.logger.Warnf("Failed login attempt for %s", req.Username)
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrInvalidState)
	}

	token, expiresAt, err := s.issuer.GenerateToken(operator)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.operators.UpdateOperatorFields(ctx, operator.OperatorID, map[string]interface{}{
		"lastLoginAt": now,
	}); err != nil {
		s.logger.Warnf("Failed to record login time for %s: %v", operator.OperatorID, err)
	}
	operator.LastLoginAt = &now

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Operator:  operator,
	}, nil
}
