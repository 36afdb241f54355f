package repository

import (
	"context"
	"disasterlink-backend/dal"
	"disasterlink-backend/models"
	"disasterlink-backend/utils/logger"
	"errors"
	"fmt"
	"time"
)

type OperatorRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewOperatorRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *OperatorRepository {
	return &OperatorRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *OperatorRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_operators"
}

func (r *OperatorRepository) CreateOperator(ctx context.Context, operator *models.Operator) (*models.Operator, error) {
	if operator.OperatorID == "" {
		return nil, errors.New("operator ID is required")
	}

	now := time.Now()
	operator.CreatedAt = now
	operator.UpdatedAt = now
	operator.Version = 1
	if operator.Status == "" {
		operator.Status = models.OperatorStatusActive
	}

	if err := r.db.PutItem(ctx, r.tableName(), operator); err != nil {
		r.logger.Errorf("Failed to create operator: %v", err)
		return nil, err
	}

	r.logger.Infof("Operator created: %s", operator.Username)
	return operator, nil
}

func (r *OperatorRepository) GetOperator(ctx context.Context, operatorID string) (*models.Operator, error) {
	if operatorID == "" {
		return nil, errors.New("operator ID is required")
	}

	operator := models.Operator{}
	qc := models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "operatorId",
		KeyValue:  operatorID,
		KeyType:   models.StringType,
	}

	if err := r.db.GetItem(ctx, qc, &operator); err != nil {
		r.logger.Errorf("Failed to get operator %s: %v", operatorID, err)
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}

	if operator.OperatorID == "" {
		return nil, fmt.Errorf("operator %s: %w", operatorID, models.ErrNotFound)
	}

	return &operator, nil
}

func (r *OperatorRepository) GetOperatorByUsername(ctx context.Context, username string) (*models.Operator, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}

	operator := models.Operator{}
	qc := models.QueryConfig{
		TableName: r.tableName(),
		IndexName: "username-index",
		KeyName:   "username",
		KeyValue:  username,
		KeyType:   models.StringType,
	}

	if err := r.db.GetItem(ctx, qc, &operator); err != nil {
		r.logger.Errorf("Failed to get operator by username %s: %v", username, err)
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}

	if operator.OperatorID == "" {
		return nil, fmt.Errorf("operator %s: %w", username, models.ErrNotFound)
	}

	return &operator, nil
}

func (r *OperatorRepository) UpdateOperatorFields(ctx context.Context, operatorID string, updates map[string]interface{}) error {
	if operatorID == "" {
		return errors.New("operator ID is required")
	}

	updates["updatedAt"] = time.Now()
	return r.db.UpdateItem(ctx, r.tableName(), "operatorId", operatorID, updates)
}
