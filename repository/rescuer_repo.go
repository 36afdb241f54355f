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

type RescuerRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewRescuerRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *RescuerRepository {
	return &RescuerRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *RescuerRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_rescuers"
}

func (r *RescuerRepository) CreateRescuer(ctx context.Context, rescuer *models.Rescuer) (*models.Rescuer, error) {
	if rescuer.RescuerID == "" {
		return nil, errors.New("rescuer ID is required")
	}

	now := time.Now()
	rescuer.CreatedAt = now
	rescuer.UpdatedAt = now

	if err := r.db.PutItem(ctx, r.tableName(), rescuer); err != nil {
		r.logger.Errorf("Failed to create rescuer: %v", err)
		return nil, err
	}

	r.logger.Infof("Rescuer created: %s", rescuer.RescuerID)
	return rescuer, nil
}

func (r *RescuerRepository) GetRescuer(ctx context.Context, rescuerID string) (*models.Rescuer, error) {
	if rescuerID == "" {
		return nil, errors.New("rescuer ID is required")
	}

	rescuer := models.Rescuer{}
	qc := models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "rescuerId",
		KeyValue:  rescuerID,
		KeyType:   models.StringType,
	}

	if err := r.db.GetItem(ctx, qc, &rescuer); err != nil {
		r.logger.Errorf("Failed to get rescuer %s: %v", rescuerID, err)
		return nil, fmt.Errorf("failed to get rescuer: %w", err)
	}

	if rescuer.RescuerID == "" {
		return nil, fmt.Errorf("rescuer %s: %w", rescuerID, models.ErrNotFound)
	}

	return &rescuer, nil
}

// GetRescuersByIDs resolves a batch of rescuer IDs, skipping any that do not
// exist. Used when expanding a team roster for notification fan-out.
func (r *RescuerRepository) GetRescuersByIDs(ctx context.Context, rescuerIDs []string) (map[string]*models.Rescuer, error) {
	resolved := make(map[string]*models.Rescuer, len(rescuerIDs))
	for _, id := range rescuerIDs {
		rescuer, err := r.GetRescuer(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				r.logger.Warnf("Rescuer %s not found, skipping", id)
				continue
			}
			return nil, err
		}
		resolved[id] = rescuer
	}
	return resolved, nil
}

func (r *RescuerRepository) GetRescuersByTeam(ctx context.Context, teamID string) ([]*models.Rescuer, error) {
	if teamID == "" {
		return nil, errors.New("team ID is required")
	}

	var rescuers []*models.Rescuer
	if err := r.db.QueryByIndex(ctx, r.tableName(), "teamId-index", "teamId", teamID, &rescuers); err != nil {
		r.logger.Errorf("Failed to list rescuers for team %s: %v", teamID, err)
		return nil, err
	}

	return rescuers, nil
}

func (r *RescuerRepository) GetRescuers(ctx context.Context) ([]*models.Rescuer, error) {
	var rescuers []*models.Rescuer
	if err := r.db.Scan(ctx, r.tableName(), &rescuers); err != nil {
		r.logger.Errorf("Failed to list rescuers: %v", err)
		return nil, err
	}
	return rescuers, nil
}

func (r *RescuerRepository) UpdateRescuerFields(ctx context.Context, rescuerID string, updates map[string]interface{}) error {
	if rescuerID == "" {
		return errors.New("rescuer ID is required")
	}

	updates["updatedAt"] = time.Now()
	return r.db.UpdateItem(ctx, r.tableName(), "rescuerId", rescuerID, updates)
}

func (r *RescuerRepository) DeleteRescuer(ctx context.Context, rescuerID string) error {
	if rescuerID == "" {
		return errors.New("rescuer ID is required")
	}

	if err := r.db.DeleteItem(ctx, r.tableName(), "rescuerId", rescuerID); err != nil {
		r.logger.Errorf("Failed to delete rescuer %s: %v", rescuerID, err)
		return err
	}

	r.logger.Infof("Rescuer deleted: %s", rescuerID)
	return nil
}
