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

type TeamRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewTeamRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *TeamRepository {
	return &TeamRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *TeamRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_rescue_teams"
}

func (r *TeamRepository) CreateTeam(ctx context.Context, team *models.RescueTeam) (*models.RescueTeam, error) {
	if team.TeamID == "" {
		return nil, errors.New("team ID is required")
	}

	now := time.Now()
	team.CreatedAt = now
	team.UpdatedAt = now
	team.Version = 1
	if team.Status == "" {
		team.Status = models.TeamStatusFree
	}

	if err := r.db.PutItem(ctx, r.tableName(), team); err != nil {
		r.logger.Errorf("Failed to create team: %v", err)
		return nil, err
	}

	r.logger.Infof("Rescue team created: %s", team.TeamID)
	return team, nil
}

func (r *TeamRepository) GetTeam(ctx context.Context, teamID string) (*models.RescueTeam, error) {
	if teamID == "" {
		return nil, errors.New("team ID is required")
	}

	team := models.RescueTeam{}
	qc := models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "teamId",
		KeyValue:  teamID,
		KeyType:   models.StringType,
	}

	if err := r.db.GetItem(ctx, qc, &team); err != nil {
		r.logger.Errorf("Failed to get team %s: %v", teamID, err)
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	if team.TeamID == "" {
		return nil, fmt.Errorf("team %s: %w", teamID, models.ErrNotFound)
	}

	return &team, nil
}

func (r *TeamRepository) GetTeamsByFilter(ctx context.Context, filter *models.TeamFilter) ([]*models.RescueTeam, error) {
	var teams []*models.RescueTeam
	var err error

	if filter != nil && filter.Status != "" {
		err = r.db.QueryByIndex(ctx, r.tableName(), "status-index", "status", string(filter.Status), &teams)
	} else {
		err = r.db.Scan(ctx, r.tableName(), &teams)
	}

	if err != nil {
		r.logger.Errorf("Failed to list teams: %v", err)
		return nil, err
	}

	filtered := r.applyAdditionalFilters(teams, filter)
	r.logger.Debugf("Found %d teams", len(filtered))
	return filtered, nil
}

func (r *TeamRepository) UpdateTeamFields(ctx context.Context, teamID string, updates map[string]interface{}) error {
	if teamID == "" {
		return errors.New("team ID is required")
	}

	updates["updatedAt"] = time.Now()
	return r.db.UpdateItem(ctx, r.tableName(), "teamId", teamID, updates)
}

// CompareAndSetTeam applies a patch only when the stored version matches,
// so two concurrent assignments cannot both claim the same team.
func (r *TeamRepository) CompareAndSetTeam(ctx context.Context, teamID string, expectedVersion int64, patch map[string]interface{}) (int64, error) {
	if teamID == "" {
		return 0, errors.New("team ID is required")
	}

	patch["updatedAt"] = time.Now()
	return r.db.ConditionalUpdateItem(ctx, r.tableName(), "teamId", teamID, expectedVersion, patch)
}

func (r *TeamRepository) DeleteTeam(ctx context.Context, teamID string) error {
	if teamID == "" {
		return errors.New("team ID is required")
	}

	if err := r.db.DeleteItem(ctx, r.tableName(), "teamId", teamID); err != nil {
		r.logger.Errorf("Failed to delete team %s: %v", teamID, err)
		return err
	}

	r.logger.Infof("Rescue team deleted: %s", teamID)
	return nil
}

func (r *TeamRepository) applyAdditionalFilters(teams []*models.RescueTeam, filter *models.TeamFilter) []*models.RescueTeam {
	if filter == nil {
		return teams
	}

	var filtered []*models.RescueTeam
	for _, team := range teams {
		if filter.Status != "" && team.Status != filter.Status {
			continue
		}
		if filter.LeaderID != "" && team.LeaderID != filter.LeaderID {
			continue
		}
		filtered = append(filtered, team)
	}

	return filtered
}
