package services

import (
	"context"
	"disasterlink-backend/models"
	"disasterlink-backend/repository"
	"disasterlink-backend/utils"
	"disasterlink-backend/utils/geo"
	"disasterlink-backend/utils/logger"
	"fmt"
	"math"
	"sort"
)

type ShelterService struct {
	shelters repository.ShelterRepositoryInterface
	victims  repository.VictimRepositoryInterface
	logger   logger.Logger
}

func NewShelterService(shelters repository.ShelterRepositoryInterface, victims repository.VictimRepositoryInterface, log logger.Logger) *ShelterService {
	return &ShelterService{
		shelters: shelters,
		victims:  victims,
		logger:   log,
	}
}

func (s *ShelterService) CreateShelter(ctx context.Context, req *models.CreateShelterRequest) (*models.Shelter, error) {
	shelter := &models.Shelter{
		ShelterID:     utils.GenerateUUID(),
		Name:          req.Name,
		Address:       req.Address,
		Description:   req.Description,
		Capacity:      req.Capacity,
		ContactNumber: req.ContactNumber,
		Latitude:      &req.Latitude,
		Longitude:     &req.Longitude,
		Amenities:     req.Amenities,
		Status:        "open",
		IsActive:      true,
	}
	return s.shelters.CreateShelter(ctx, shelter)
}

func (s *ShelterService) GetShelter(ctx context.Context, shelterID string) (*models.Shelter, error) {
	return s.shelters.GetShelter(ctx, shelterID)
}

func (s *ShelterService) GetShelters(ctx context.Context) ([]*models.Shelter, error) {
	return s.shelters.GetShelters(ctx)
}

func (s *ShelterService) UpdateShelter(ctx context.Context, shelterID string, req *models.UpdateShelterRequest) (*models.Shelter, error) {
	shelter, err := s.shelters.GetShelter(ctx, shelterID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		shelter.Name = req.Name
		updates["name"] = req.Name
	}
	if req.Address != "" {
		shelter.Address = req.Address
		updates["address"] = req.Address
	}
	if req.Description != "" {
		shelter.Description = req.Description
		updates["description"] = req.Description
	}
	if req.Capacity != nil {
		shelter.Capacity = *req.Capacity
		updates["capacity"] = *req.Capacity
	}
	if req.ContactNumber != "" {
		shelter.ContactNumber = req.ContactNumber
		updates["contactNumber"] = req.ContactNumber
	}
	if req.Amenities != nil {
		shelter.Amenities = req.Amenities
		updates["amenities"] = req.Amenities
	}
	if req.IsActive != nil {
		shelter.IsActive = *req.IsActive
		updates["isActive"] = *req.IsActive
	}

	if len(updates) == 0 {
		return shelter, nil
	}

	if err := s.shelters.UpdateShelterFields(ctx, shelterID, updates); err != nil {
		return nil, err
	}

	return shelter, nil
}

func (s *ShelterService) DeleteShelter(ctx context.Context, shelterID string) error {
	return s.shelters.DeleteShelter(ctx, shelterID)
}

// NearestShelters returns active shelters with spare capacity ordered by
// distance from the query point. Shelters without coordinates are excluded.
func (s *ShelterService) NearestShelters(ctx context.Context, lat, lon float64, limit int) ([]*models.NearestShelter, error) {
	shelters, err := s.shelters.GetShelters(ctx)
	if err != nil {
		return nil, err
	}

	var nearest []*models.NearestShelter
	for _, shelter := range shelters {
		if !shelter.IsActive || shelter.CurrentOccupancy >= shelter.Capacity {
			continue
		}

		d := geo.DistanceKm(&lat, &lon, shelter.Latitude, shelter.Longitude)
		if math.IsInf(d, 1) {
			continue
		}

		nearest = append(nearest, &models.NearestShelter{Shelter: shelter, DistanceKm: d})
	}

	sort.Slice(nearest, func(i, j int) bool {
		if nearest[i].DistanceKm != nearest[j].DistanceKm {
			return nearest[i].DistanceKm < nearest[j].DistanceKm
		}
		return nearest[i].Shelter.ShelterID < nearest[j].Shelter.ShelterID
	})

	if limit > 0 && len(nearest) > limit {
		nearest = nearest[:limit]
	}

	return nearest, nil
}

// CheckinVictim books a victim into a shelter: bumps occupancy with a
// versioned write so concurrent check-ins cannot overfill the shelter, then
// marks the victim sheltered (inactive, assignment cleared).
func (s *ShelterService) CheckinVictim(ctx context.Context, shelterID, phoneNumber string) (*models.Shelter, error) {
	shelter, err := s.shelters.GetShelter(ctx, shelterID)
	if err != nil {
		return nil, err
	}

	victim, err := s.victims.GetVictim(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}

	if !shelter.IsActive {
		return nil, fmt.Errorf("shelter %s is not active: %w", shelterID, models.ErrInvalidState)
	}
	if shelter.CurrentOccupancy >= shelter.Capacity {
		return nil, fmt.Errorf("shelter %s is full: %w", shelterID, models.ErrInvalidState)
	}

	newVersion, err := s.shelters.CompareAndSetShelter(ctx, shelterID, shelter.Version, map[string]interface{}{
		"currentOccupancy": shelter.CurrentOccupancy + 1,
	})
	if err != nil {
		return nil, err
	}

	shelter.CurrentOccupancy++
	shelter.Version = newVersion

	// Versioned write: a sweep holding a stale snapshot of this victim must
	// lose the race, otherwise a sheltered victim could still be assigned.
	if _, err := s.victims.CompareAndSetVictim(ctx, victim.PhoneNumber, victim.Version, map[string]interface{}{
		"isActive":       false,
		"assignedTeamId": "",
	}); err != nil {
		s.logger.Errorf("Victim %s checked in to %s but record update failed: %v", phoneNumber, shelterID, err)
		return nil, err
	}

	s.logger.Infof("Victim %s checked in to shelter %s (%d/%d)",
		victim.PhoneNumber, shelterID, shelter.CurrentOccupancy, shelter.Capacity)
	return shelter, nil
}
