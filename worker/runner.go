package worker

import (
	"context"
	"disasterlink-backend/models"
	"disasterlink-backend/utils/logger"
	"fmt"
)

// Service wraps the sweep worker for easy integration
type Service struct {
	worker *models.SweepWorker
	logger logger.Logger
}

// NewService creates a new sweep worker service
func NewService(ctx context.Context, cfg *models.Config, log logger.Logger, runner models.SweepRunner) (*Service, error) {
	worker, err := NewWorker(ctx, cfg, log, runner)
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep worker: %w", err)
	}

	return &Service{
		worker: worker,
		logger: log,
	}, nil
}

// StartInBackground starts the sweep worker in a goroutine.
func (s *Service) StartInBackground() error {
	s.logger.Info("Starting sweep worker service in background")

	go func() {
		w := &Worker{Worker: s.worker}
		if err := w.Start(); err != nil {
			s.logger.Errorf("Sweep worker failed to start: %v", err)
		}
	}()

	return nil
}

// Stop stops the sweep worker service
func (s *Service) Stop() error {
	s.logger.Info("Stopping sweep worker service")
	w := &Worker{Worker: s.worker}
	return w.Stop()
}

// StatusManager exposes the status reader for the HTTP surface.
func (s *Service) StatusManager() *StatusManager {
	return &StatusManager{StatusManager: *s.worker.StatusManager}
}
