package services

import (
	"context"
	"disasterlink-backend/models"
	"disasterlink-backend/repository"
	"disasterlink-backend/utils"
	"disasterlink-backend/utils/logger"
	"fmt"
)

// RescuerService manages individual rescue members. Leader location updates
// flow through here; they are what the incident best-fit scorer reads.
type RescuerService struct {
	rescuers repository.RescuerRepositoryInterface
	logger   logger.Logger
}

func NewRescuerService(rescuers repository.RescuerRepositoryInterface, log logger.Logger) *RescuerService {
	return &RescuerService{
		rescuers: rescuers,
		logger:   log,
	}
}

func (s *RescuerService) CreateRescuer(ctx context.Context, req *models.CreateRescuerRequest) (*models.Rescuer, error) {
	rescuer := &models.Rescuer{
		RescuerID: utils.GenerateUUID(),
		Name:      req.Name,
		Phone:     utils.NormalizePhone(req.Phone),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Status:    models.TeamStatusFree,
	}
	return s.rescuers.CreateRescuer(ctx, rescuer)
}

func (s *RescuerService) GetRescuer(ctx context.Context, rescuerID string) (*models.Rescuer, error) {
	return s.rescuers.GetRescuer(ctx, rescuerID)
}

// GetRescuers lists rescuers, optionally restricted to one team or to
// members still free to be rostered.
func (s *RescuerService) GetRescuers(ctx context.Context, filter *models.RescuerFilter) ([]*models.Rescuer, error) {
	var rescuers []*models.Rescuer
	var err error

	if filter != nil && filter.TeamID != "" {
		rescuers, err = s.rescuers.GetRescuersByTeam(ctx, filter.TeamID)
	} else {
		rescuers, err = s.rescuers.GetRescuers(ctx)
	}
	if err != nil {
		return nil, err
	}

	if filter == nil || !filter.AvailableOnly {
		return rescuers, nil
	}

	var available []*models.Rescuer
	for _, rescuer := range rescuers {
		if rescuer.TeamID == "" && rescuer.Status == models.TeamStatusFree {
			available = append(available, rescuer)
		}
	}
	return available, nil
}

func (s *RescuerService) UpdateRescuer(ctx context.Context, rescuerID string, req *models.UpdateRescuerRequest) (*models.Rescuer, error) {
	rescuer, err := s.rescuers.GetRescuer(ctx, rescuerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		rescuer.Name = req.Name
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		rescuer.Phone = utils.NormalizePhone(req.Phone)
		updates["phone"] = rescuer.Phone
	}
	if req.Latitude != nil && req.Longitude != nil {
		rescuer.Latitude = req.Latitude
		rescuer.Longitude = req.Longitude
		updates["latitude"] = *req.Latitude
		updates["longitude"] = *req.Longitude
	}
	if req.Status != "" {
		rescuer.Status = req.Status
		updates["status"] = string(req.Status)
	}

	if len(updates) == 0 {
		return rescuer, nil
	}

	if err := s.rescuers.UpdateRescuerFields(ctx, rescuerID, updates); err != nil {
		return nil, err
	}
	return rescuer, nil
}

// DeleteRescuer removes a rescuer. A rescuer still on a team roster must be
// removed from the team first.
func (s *RescuerService) DeleteRescuer(ctx context.Context, rescuerID string) error {
	rescuer, err := s.rescuers.GetRescuer(ctx, rescuerID)
	if err != nil {
		return err
	}

	if rescuer.TeamID != "" {
		return fmt.Errorf("rescuer %s is on team %s: %w", rescuerID, rescuer.TeamID, models.ErrInvalidState)
	}

	return s.rescuers.DeleteRescuer(ctx, rescuerID)
}
