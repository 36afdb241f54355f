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

type IncidentRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewIncidentRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *IncidentRepository {
	return &IncidentRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *IncidentRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_incidents"
}

func (r *IncidentRepository) CreateIncident(ctx context.Context, incident *models.Incident) (*models.Incident, error) {
	if incident.IncidentID == "" {
		return nil, errors.New("incident ID is required")
	}

	now := time.Now()
	incident.CreatedAt = now
	incident.UpdatedAt = now
	incident.Version = 1
	if incident.Status == "" {
		incident.Status = models.IncidentStatusReported
	}

	if err := r.db.PutItem(ctx, r.tableName(), incident); err != nil {
		r.logger.Errorf("Failed to create incident: %v", err)
		return nil, err
	}

	r.logger.Infof("Incident created: %s (%s)", incident.IncidentID, incident.Type)
	return incident, nil
}

func (r *IncidentRepository) GetIncident(ctx context.Context, incidentID string) (*models.Incident, error) {
	if incidentID == "" {
		return nil, errors.New("incident ID is required")
	}

	incident := models.Incident{}
	qc := models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "incidentId",
		KeyValue:  incidentID,
		KeyType:   models.StringType,
	}

	if err := r.db.GetItem(ctx, qc, &incident); err != nil {
		r.logger.Errorf("Failed to get incident %s: %v", incidentID, err)
		return nil, fmt.Errorf("failed to get incident: %w", err)
	}

	if incident.IncidentID == "" {
		return nil, fmt.Errorf("incident %s: %w", incidentID, models.ErrNotFound)
	}

	return &incident, nil
}

func (r *IncidentRepository) GetIncidentsByFilter(ctx context.Context, filter *models.IncidentFilter) ([]*models.Incident, error) {
	var incidents []*models.Incident
	var err error

	if filter != nil && filter.Status != "" {
		err = r.db.QueryByIndex(ctx, r.tableName(), "status-index", "status", string(filter.Status), &incidents)
	} else {
		err = r.db.Scan(ctx, r.tableName(), &incidents)
	}

	if err != nil {
		r.logger.Errorf("Failed to list incidents: %v", err)
		return nil, err
	}

	filtered := r.applyAdditionalFilters(incidents, filter)
	r.logger.Debugf("Found %d incidents", len(filtered))
	return filtered, nil
}

// CompareAndSetIncident applies a patch only when the stored version matches.
// Auto-assignment uses this so an incident is bound to at most one team.
func (r *IncidentRepository) CompareAndSetIncident(ctx context.Context, incidentID string, expectedVersion int64, patch map[string]interface{}) (int64, error) {
	if incidentID == "" {
		return 0, errors.New("incident ID is required")
	}

	patch["updatedAt"] = time.Now()
	return r.db.ConditionalUpdateItem(ctx, r.tableName(), "incidentId", incidentID, expectedVersion, patch)
}

func (r *IncidentRepository) applyAdditionalFilters(incidents []*models.Incident, filter *models.IncidentFilter) []*models.Incident {
	if filter == nil {
		return incidents
	}

	var filtered []*models.Incident
	for _, incident := range incidents {
		if filter.Status != "" && incident.Status != filter.Status {
			continue
		}
		if filter.Type != "" && incident.Type != filter.Type {
			continue
		}
		if filter.Severity != "" && incident.Severity != filter.Severity {
			continue
		}
		filtered = append(filtered, incident)
	}

	return filtered
}
