package services

import (
	"context"
	"disasterlink-backend/models"
	"disasterlink-backend/repository"
	"disasterlink-backend/utils"
	"disasterlink-backend/utils/logger"
	"fmt"
)

type IncidentService struct {
	incidents repository.IncidentRepositoryInterface
	logger    logger.Logger
}

func NewIncidentService(incidents repository.IncidentRepositoryInterface, log logger.Logger) *IncidentService {
	return &IncidentService{
		incidents: incidents,
		logger:    log,
	}
}

func (s *IncidentService) CreateIncident(ctx context.Context, req *models.CreateIncidentRequest) (*models.Incident, error) {
	incident := &models.Incident{
		IncidentID:  utils.GenerateUUID(),
		Type:        req.Type,
		Latitude:    &req.Latitude,
		Longitude:   &req.Longitude,
		Severity:    req.Severity,
		Status:      models.IncidentStatusReported,
		ReportedBy:  req.ReportedBy,
		Description: req.Description,
	}
	return s.incidents.CreateIncident(ctx, incident)
}

func (s *IncidentService) GetIncident(ctx context.Context, incidentID string) (*models.Incident, error) {
	return s.incidents.GetIncident(ctx, incidentID)
}

func (s *IncidentService) GetIncidents(ctx context.Context, filter *models.IncidentFilter) ([]*models.Incident, error) {
	return s.incidents.GetIncidentsByFilter(ctx, filter)
}

// UpdateIncident applies operator edits. The In Progress transition belongs
// to the coordinator and is rejected here; operators move incidents between
// Reported, Verified and Resolved.
func (s *IncidentService) UpdateIncident(ctx context.Context, incidentID string, req *models.UpdateIncidentRequest) (*models.Incident, error) {
	incident, err := s.incidents.GetIncident(ctx, incidentID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Status != "" {
		if req.Status == models.IncidentStatusInProgress {
			return nil, fmt.Errorf("status %q is set by auto-assignment only: %w", req.Status, models.ErrInvalidState)
		}
		incident.Status = req.Status
		updates["status"] = string(req.Status)
	}
	if req.Severity != "" {
		incident.Severity = req.Severity
		updates["severity"] = string(req.Severity)
	}
	if req.Description != "" {
		incident.Description = req.Description
		updates["description"] = req.Description
	}

	if len(updates) == 0 {
		return incident, nil
	}

	newVersion, err := s.incidents.CompareAndSetIncident(ctx, incidentID, incident.Version, updates)
	if err != nil {
		return nil, err
	}

	incident.Version = newVersion
	return incident, nil
}
