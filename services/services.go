package services

import (
	"disasterlink-backend/models"
	"disasterlink-backend/repository"
	"disasterlink-backend/utils/logger"
)

// Service bundles every domain service behind one constructor so the
// controller layer receives a single dependency.
type Service struct {
	Coordinator CoordinatorInterface
	Teams       TeamServiceInterface
	Rescuers    RescuerServiceInterface
	Victims     VictimServiceInterface
	Incidents   IncidentServiceInterface
	Shelters    ShelterServiceInterface
	SMS         SMSServiceInterface
	Operators   OperatorServiceInterface
	Notifier    Dispatcher
}

func NewService(repos *repository.Repository, issuer TokenIssuer, cfg *models.Config, log logger.Logger) *Service {
	notifier := NewNotificationService(repos.Outbox, cfg, log)
	victims := NewVictimService(repos.Victims, log)
	shelters := NewShelterService(repos.Shelters, repos.Victims, log)

	return &Service{
		Coordinator: NewCoordinator(repos, notifier, cfg, log),
		Teams:       NewTeamService(repos.Teams, repos.Rescuers, log),
		Rescuers:    NewRescuerService(repos.Rescuers, log),
		Victims:     victims,
		Incidents:   NewIncidentService(repos.Incidents, log),
		Shelters:    shelters,
		SMS:         NewSMSService(victims, repos.Incidents, shelters, repos.Outbox, notifier, log),
		Operators:   NewOperatorService(repos.Operators, issuer, log),
	}
}
