package services

import (
	"context"
	"disasterlink-backend/models"
	"disasterlink-backend/repository"
	"disasterlink-backend/utils"
	"disasterlink-backend/utils/logger"
	"errors"
)

type VictimService struct {
	victims repository.VictimRepositoryInterface
	logger  logger.Logger
}

func NewVictimService(victims repository.VictimRepositoryInterface, log logger.Logger) *VictimService {
	return &VictimService{
		victims: victims,
		logger:  log,
	}
}

func (s *VictimService) RegisterVictim(ctx context.Context, victim *models.Victim) (*models.Victim, error) {
	return s.victims.CreateVictim(ctx, victim)
}

func (s *VictimService) GetVictim(ctx context.Context, phoneNumber string) (*models.Victim, error) {
	return s.victims.GetVictim(ctx, phoneNumber)
}

// GetOrRegister returns the victim for a phone number, creating a minimal
// record on first contact. Victims enter the system through their first SMS.
func (s *VictimService) GetOrRegister(ctx context.Context, phoneNumber string) (*models.Victim, error) {
	victim, err := s.victims.GetVictim(ctx, phoneNumber)
	if err == nil {
		return victim, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	s.logger.Infof("First contact from %s, registering victim", phoneNumber)
	return s.victims.CreateVictim(ctx, &models.Victim{
		PhoneNumber: utils.NormalizePhone(phoneNumber),
		Status:      models.VictimStatusActive,
	})
}

func (s *VictimService) GetVictims(ctx context.Context, filter *models.VictimFilter) ([]*models.Victim, error) {
	return s.victims.GetVictimsByFilter(ctx, filter)
}

func (s *VictimService) UpdateStatus(ctx context.Context, phoneNumber string, status models.VictimStatus) (*models.Victim, error) {
	victim, err := s.victims.GetVictim(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}

	if err := s.victims.UpdateVictimFields(ctx, phoneNumber, map[string]interface{}{
		"status": string(status),
	}); err != nil {
		return nil, err
	}

	victim.Status = status
	return victim, nil
}

func (s *VictimService) UpdateLocation(ctx context.Context, phoneNumber string, req *models.UpdateVictimLocationRequest) (*models.Victim, error) {
	victim, err := s.victims.GetVictim(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"latitude":  req.Latitude,
		"longitude": req.Longitude,
	}
	if req.Battery > 0 {
		updates["battery"] = req.Battery
	}

	if err := s.victims.UpdateVictimFields(ctx, phoneNumber, updates); err != nil {
		return nil, err
	}

	victim.Latitude = &req.Latitude
	victim.Longitude = &req.Longitude
	if req.Battery > 0 {
		victim.Battery = req.Battery
	}
	return victim, nil
}
