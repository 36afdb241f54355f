package repository

import (
	"context"
	"disasterlink-backend/models"
)

// VictimRepositoryInterface defines the contract for victim repository operations
type VictimRepositoryInterface interface {
	CreateVictim(ctx context.Context, victim *models.Victim) (*models.Victim, error)
	GetVictim(ctx context.Context, phoneNumber string) (*models.Victim, error)
	GetVictimsByFilter(ctx context.Context, filter *models.VictimFilter) ([]*models.Victim, error)
	UpdateVictimFields(ctx context.Context, phoneNumber string, updates map[string]interface{}) error
	CompareAndSetVictim(ctx context.Context, phoneNumber string, expectedVersion int64, patch map[string]interface{}) (int64, error)
}

// TeamRepositoryInterface defines the contract for rescue team repository operations
type TeamRepositoryInterface interface {
	CreateTeam(ctx context.Context, team *models.RescueTeam) (*models.RescueTeam, error)
	GetTeam(ctx context.Context, teamID string) (*models.RescueTeam, error)
	GetTeamsByFilter(ctx context.Context, filter *models.TeamFilter) ([]*models.RescueTeam, error)
	UpdateTeamFields(ctx context.Context, teamID string, updates map[string]interface{}) error
	CompareAndSetTeam(ctx context.Context, teamID string, expectedVersion int64, patch map[string]interface{}) (int64, error)
	DeleteTeam(ctx context.Context, teamID string) error
}

// RescuerRepositoryInterface defines the contract for rescuer repository operations
type RescuerRepositoryInterface interface {
	CreateRescuer(ctx context.Context, rescuer *models.Rescuer) (*models.Rescuer, error)
	GetRescuer(ctx context.Context, rescuerID string) (*models.Rescuer, error)
	GetRescuersByIDs(ctx context.Context, rescuerIDs []string) (map[string]*models.Rescuer, error)
	GetRescuersByTeam(ctx context.Context, teamID string) ([]*models.Rescuer, error)
	GetRescuers(ctx context.Context) ([]*models.Rescuer, error)
	UpdateRescuerFields(ctx context.Context, rescuerID string, updates map[string]interface{}) error
	DeleteRescuer(ctx context.Context, rescuerID string) error
}

// IncidentRepositoryInterface defines the contract for incident repository operations
type IncidentRepositoryInterface interface {
	CreateIncident(ctx context.Context, incident *models.Incident) (*models.Incident, error)
	GetIncident(ctx context.Context, incidentID string) (*models.Incident, error)
	GetIncidentsByFilter(ctx context.Context, filter *models.IncidentFilter) ([]*models.Incident, error)
	CompareAndSetIncident(ctx context.Context, incidentID string, expectedVersion int64, patch map[string]interface{}) (int64, error)
}

// ShelterRepositoryInterface defines the contract for shelter repository operations
type ShelterRepositoryInterface interface {
	CreateShelter(ctx context.Context, shelter *models.Shelter) (*models.Shelter, error)
	GetShelter(ctx context.Context, shelterID string) (*models.Shelter, error)
	GetShelters(ctx context.Context) ([]*models.Shelter, error)
	UpdateShelterFields(ctx context.Context, shelterID string, updates map[string]interface{}) error
	CompareAndSetShelter(ctx context.Context, shelterID string, expectedVersion int64, patch map[string]interface{}) (int64, error)
	DeleteShelter(ctx context.Context, shelterID string) error
}

// OutboxRepositoryInterface defines the contract for the SMS outbox
type OutboxRepositoryInterface interface {
	Enqueue(ctx context.Context, message *models.OutboxMessage) (*models.OutboxMessage, error)
	NextQueued(ctx context.Context) (*models.OutboxMessage, error)
	MarkSent(ctx context.Context, messageID string, expectedVersion int64) error
	MarkFailed(ctx context.Context, messageID string, expectedVersion int64) error
}

// OperatorRepositoryInterface defines the contract for operator accounts
type OperatorRepositoryInterface interface {
	CreateOperator(ctx context.Context, operator *models.Operator) (*models.Operator, error)
	GetOperator(ctx context.Context, operatorID string) (*models.Operator, error)
	GetOperatorByUsername(ctx context.Context, username string) (*models.Operator, error)
	UpdateOperatorFields(ctx context.Context, operatorID string, updates map[string]interface{}) error
}
