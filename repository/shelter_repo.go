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

type ShelterRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewShelterRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *ShelterRepository {
	return &ShelterRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *ShelterRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_shelters"
}

func (r *ShelterRepository) CreateShelter(ctx context.Context, shelter *models.Shelter) (*models.Shelter, error) {
	if shelter.ShelterID == "" {
		return nil, errors.New("shelter ID is required")
	}

	now := time.Now()
	shelter.CreatedAt = now
	shelter.UpdatedAt = now
	shelter.Version = 1

	if err := r.db.PutItem(ctx, r.tableName(), shelter); err != nil {
		r.logger.Errorf("Failed to create shelter: %v", err)
		return nil, err
	}

	r.logger.Infof("Shelter created: %s", shelter.ShelterID)
	return shelter, nil
}

func (r *ShelterRepository) GetShelter(ctx context.Context, shelterID string) (*models.Shelter, error) {
	if shelterID == "" {
		return nil, errors.New("shelter ID is required")
	}

	shelter := models.Shelter{}
	qc := models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "shelterId",
		KeyValue:  shelterID,
		KeyType:   models.StringType,
	}

	if err := r.db.GetItem(ctx, qc, &shelter); err != nil {
		r.logger.Errorf("Failed to get shelter %s: %v", shelterID, err)
		return nil, fmt.Errorf("failed to get shelter: %w", err)
	}

	if shelter.ShelterID == "" {
		return nil, fmt.Errorf("shelter %s: %w", shelterID, models.ErrNotFound)
	}

	return &shelter, nil
}

func (r *ShelterRepository) GetShelters(ctx context.Context) ([]*models.Shelter, error) {
	var shelters []*models.Shelter
	if err := r.db.Scan(ctx, r.tableName(), &shelters); err != nil {
		r.logger.Errorf("Failed to list shelters: %v", err)
		return nil, err
	}

	r.logger.Debugf("Found %d shelters", len(shelters))
	return shelters, nil
}

func (r *ShelterRepository) UpdateShelterFields(ctx context.Context, shelterID string, updates map[string]interface{}) error {
	if shelterID == "" {
		return errors.New("shelter ID is required")
	}

	updates["updatedAt"] = time.Now()
	return r.db.UpdateItem(ctx, r.tableName(), "shelterId", shelterID, updates)
}

// CompareAndSetShelter applies a patch only when the stored version matches.
// Check-in uses this so concurrent check-ins cannot overfill a shelter.
func (r *ShelterRepository) CompareAndSetShelter(ctx context.Context, shelterID string, expectedVersion int64, patch map[string]interface{}) (int64, error) {
	if shelterID == "" {
		return 0, errors.New("shelter ID is required")
	}

	patch["updatedAt"] = time.Now()
	return r.db.ConditionalUpdateItem(ctx, r.tableName(), "shelterId", shelterID, expectedVersion, patch)
}

func (r *ShelterRepository) DeleteShelter(ctx context.Context, shelterID string) error {
	if shelterID == "" {
		return errors.New("shelter ID is required")
	}

	if err := r.db.DeleteItem(ctx, r.tableName(), "shelterId", shelterID); err != nil {
		r.logger.Errorf("Failed to delete shelter %s: %v", shelterID, err)
		return err
	}

	r.logger.Infof("Shelter deleted: %s", shelterID)
	return nil
}
