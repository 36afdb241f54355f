package repository

import (
	"disasterlink-backend/dal"
	"disasterlink-backend/models"
	"disasterlink-backend/utils/logger"
)

// Repository bundles every entity repository behind one constructor so the
// service layer receives a single dependency.
type Repository struct {
	Victims   VictimRepositoryInterface
	Teams     TeamRepositoryInterface
	Rescuers  RescuerRepositoryInterface
	Incidents IncidentRepositoryInterface
	Shelters  ShelterRepositoryInterface
	Outbox    OutboxRepositoryInterface
	Operators OperatorRepositoryInterface
}

func NewRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *Repository {
	return &Repository{
		Victims:   NewVictimRepository(db, cfg, log),
		Teams:     NewTeamRepository(db, cfg, log),
		Rescuers:  NewRescuerRepository(db, cfg, log),
		Incidents: NewIncidentRepository(db, cfg, log),
		Shelters:  NewShelterRepository(db, cfg, log),
		Outbox:    NewOutboxRepository(db, cfg, log),
		Operators: NewOperatorRepository(db, cfg, log),
	}
}
