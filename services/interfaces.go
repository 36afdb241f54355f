package services

import (
	"context"
	"disasterlink-backend/models"
)

// CoordinatorInterface defines the contract for the assignment coordinator
type CoordinatorInterface interface {
	AssignTeamToLocation(ctx context.Context, teamID string, lat, lon float64) (*models.TeamAssignmentResult, error)
	UnassignTeam(ctx context.Context, teamID string) (*models.TeamAssignmentResult, error)
	AutoAssignSweep(ctx context.Context) (*models.SweepResult, error)
	AutoAssignIncident(ctx context.Context, incidentID string) (*models.IncidentAssignment, error)
}

// TeamServiceInterface defines the contract for team management
type TeamServiceInterface interface {
	CreateTeam(ctx context.Context, req *models.CreateTeamRequest) (*models.RescueTeam, error)
	GetTeam(ctx context.Context, teamID string) (*models.RescueTeam, error)
	GetTeams(ctx context.Context, filter *models.TeamFilter) ([]*models.RescueTeam, error)
	UpdateTeam(ctx context.Context, teamID string, req *models.UpdateTeamRequest) (*models.RescueTeam, error)
	GetRoster(ctx context.Context, teamID string) ([]*models.Rescuer, error)
	AddMember(ctx context.Context, teamID, rescuerID string) (*models.RescueTeam, error)
	RemoveMember(ctx context.Context, teamID, rescuerID string) (*models.RescueTeam, error)
	DeleteTeam(ctx context.Context, teamID string) error
}

// RescuerServiceInterface defines the contract for rescue member management
type RescuerServiceInterface interface {
	CreateRescuer(ctx context.Context, req *models.CreateRescuerRequest) (*models.Rescuer, error)
	GetRescuer(ctx context.Context, rescuerID string) (*models.Rescuer, error)
	GetRescuers(ctx context.Context, filter *models.RescuerFilter) ([]*models.Rescuer, error)
	UpdateRescuer(ctx context.Context, rescuerID string, req *models.UpdateRescuerRequest) (*models.Rescuer, error)
	DeleteRescuer(ctx context.Context, rescuerID string) error
}

// VictimServiceInterface defines the contract for victim management
type VictimServiceInterface interface {
	RegisterVictim(ctx context.Context, victim *models.Victim) (*models.Victim, error)
	GetVictim(ctx context.Context, phoneNumber string) (*models.Victim, error)
	GetOrRegister(ctx context.Context, phoneNumber string) (*models.Victim, error)
	GetVictims(ctx context.Context, filter *models.VictimFilter) ([]*models.Victim, error)
	UpdateStatus(ctx context.Context, phoneNumber string, status models.VictimStatus) (*models.Victim, error)
	UpdateLocation(ctx context.Context, phoneNumber string, req *models.UpdateVictimLocationRequest) (*models.Victim, error)
}

// IncidentServiceInterface defines the contract for incident management
type IncidentServiceInterface interface {
	CreateIncident(ctx context.Context, req *models.CreateIncidentRequest) (*models.Incident, error)
	GetIncident(ctx context.Context, incidentID string) (*models.Incident, error)
	GetIncidents(ctx context.Context, filter *models.IncidentFilter) ([]*models.Incident, error)
	UpdateIncident(ctx context.Context, incidentID string, req *models.UpdateIncidentRequest) (*models.Incident, error)
}

// ShelterServiceInterface defines the contract for shelter management
type ShelterServiceInterface interface {
	CreateShelter(ctx context.Context, req *models.CreateShelterRequest) (*models.Shelter, error)
	GetShelter(ctx context.Context, shelterID string) (*models.Shelter, error)
	GetShelters(ctx context.Context) ([]*models.Shelter, error)
	UpdateShelter(ctx context.Context, shelterID string, req *models.UpdateShelterRequest) (*models.Shelter, error)
	DeleteShelter(ctx context.Context, shelterID string) error
	NearestShelters(ctx context.Context, lat, lon float64, limit int) ([]*models.NearestShelter, error)
	CheckinVictim(ctx context.Context, shelterID, phoneNumber string) (*models.Shelter, error)
}

// SMSServiceInterface defines the contract for the SMS surface
type SMSServiceInterface interface {
	ReceiveWebhook(ctx context.Context, payload []byte) (string, error)
	HandleInbound(ctx context.Context, from, text string) (string, error)
	NextOutbound(ctx context.Context) (*models.OutboxMessage, error)
	QueueMessage(ctx context.Context, req *models.QueueSMSRequest) (*models.OutboxMessage, error)
}

// OperatorServiceInterface defines the contract for operator accounts
type OperatorServiceInterface interface {
	Register(ctx context.Context, req *models.RegisterOperatorRequest) (*models.Operator, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}
