package repository

import (
	"context"
	"disasterlink-backend/dal"
	"disasterlink-backend/models"
	"disasterlink-backend/utils"
	"disasterlink-backend/utils/logger"
	"errors"
	"fmt"
	"time"
)

type VictimRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewVictimRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *VictimRepository {
	return &VictimRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *VictimRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_victims"
}

func (r *VictimRepository) CreateVictim(ctx context.Context, victim *models.Victim) (*models.Victim, error) {
	if victim.PhoneNumber == "" {
		return nil, errors.New("victim phone number is required")
	}

	now := time.Now()
	victim.PhoneNumber = utils.NormalizePhone(victim.PhoneNumber)
	victim.CreatedAt = now
	victim.UpdatedAt = now
	victim.IsActive = true
	victim.Version = 1
	if victim.Status == "" {
		victim.Status = models.VictimStatusActive
	}

	if err := r.db.PutItem(ctx, r.tableName(), victim); err != nil {
		r.logger.Errorf("Failed to create victim: %v", err)
		return nil, err
	}

	r.logger.Infof("Victim created: %s", victim.PhoneNumber)
	return victim, nil
}

func (r *VictimRepository) GetVictim(ctx context.Context, phoneNumber string) (*models.Victim, error) {
	if phoneNumber == "" {
		return nil, errors.New("victim phone number is required")
	}

	victim := models.Victim{}
	qc := models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "phoneNumber",
		KeyValue:  utils.NormalizePhone(phoneNumber),
		KeyType:   models.StringType,
	}

	if err := r.db.GetItem(ctx, qc, &victim); err != nil {
		r.logger.Errorf("Failed to get victim %s: %v", phoneNumber, err)
		return nil, fmt.Errorf("failed to get victim: %w", err)
	}

	if victim.PhoneNumber == "" {
		return nil, fmt.Errorf("victim %s: %w", phoneNumber, models.ErrNotFound)
	}

	return &victim, nil
}

func (r *VictimRepository) GetVictimsByFilter(ctx context.Context, filter *models.VictimFilter) ([]*models.Victim, error) {
	var victims []*models.Victim
	var err error

	if filter != nil && filter.Status != "" {
		err = r.db.QueryByIndex(ctx, r.tableName(), "status-index", "status", string(filter.Status), &victims)
	} else if filter != nil && filter.AssignedTeamID != "" {
		err = r.db.QueryByIndex(ctx, r.tableName(), "assignedTeamId-index", "assignedTeamId", filter.AssignedTeamID, &victims)
	} else {
		err = r.db.Scan(ctx, r.tableName(), &victims)
	}

	if err != nil {
		r.logger.Errorf("Failed to list victims: %v", err)
		return nil, err
	}

	filtered := r.applyAdditionalFilters(victims, filter)
	r.logger.Debugf("Found %d victims", len(filtered))
	return filtered, nil
}

func (r *VictimRepository) UpdateVictimFields(ctx context.Context, phoneNumber string, updates map[string]interface{}) error {
	if phoneNumber == "" {
		return errors.New("victim phone number is required")
	}

	updates["updatedAt"] = time.Now()
	return r.db.UpdateItem(ctx, r.tableName(), "phoneNumber", utils.NormalizePhone(phoneNumber), updates)
}

// CompareAndSetVictim applies a patch only when the stored version matches.
// The coordinator uses this to claim a victim for a team exactly once.
func (r *VictimRepository) CompareAndSetVictim(ctx context.Context, phoneNumber string, expectedVersion int64, patch map[string]interface{}) (int64, error) {
	if phoneNumber == "" {
		return 0, errors.New("victim phone number is required")
	}

	patch["updatedAt"] = time.Now()
	return r.db.ConditionalUpdateItem(ctx, r.tableName(), "phoneNumber", utils.NormalizePhone(phoneNumber), expectedVersion, patch)
}

func (r *VictimRepository) applyAdditionalFilters(victims []*models.Victim, filter *models.VictimFilter) []*models.Victim {
	if filter == nil {
		return victims
	}

	var filtered []*models.Victim
	for _, victim := range victims {
		if filter.IsActive != nil && victim.IsActive != *filter.IsActive {
			continue
		}
		if filter.City != "" && victim.City != filter.City {
			continue
		}
		if filter.Status != "" && victim.Status != filter.Status {
			continue
		}
		if filter.AssignedTeamID != "" && victim.AssignedTeamID != filter.AssignedTeamID {
			continue
		}
		filtered = append(filtered, victim)
	}

	return filtered
}
