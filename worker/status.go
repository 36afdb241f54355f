package worker

import (
	"disasterlink-backend/models"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StatusManager embeds models.StatusManager to allow method definitions
type StatusManager struct {
	models.StatusManager
}

// NewStatusManager creates a new status manager
func NewStatusManager(statusPath string) *StatusManager {
	return &StatusManager{
		StatusManager: models.StatusManager{
			StatusFilePath: statusPath,
		},
	}
}

// SaveStatus persists the sweep execution record with an atomic rename so a
// concurrent reader never sees a torn file.
func (sm *StatusManager) SaveStatus(execution *models.SweepExecution) error {
	if err := os.MkdirAll(filepath.Dir(sm.StatusFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create status directory: %w", err)
	}

	if execution.EndTime == nil &&
		(execution.Status == models.SweepStatusCompleted || execution.Status == models.SweepStatusFailed) {
		now := time.Now()
		execution.EndTime = &now
		execution.Duration = now.Sub(execution.StartTime)
	}

	data, err := json.MarshalIndent(execution, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sweep status: %w", err)
	}

	tempFile := sm.StatusFilePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp status file: %w", err)
	}

	if err := os.Rename(tempFile, sm.StatusFilePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename status file: %w", err)
	}

	return nil
}

// LoadStatus reads the most recent sweep execution record.
func (sm *StatusManager) LoadStatus() (*models.SweepExecution, error) {
	data, err := os.ReadFile(sm.StatusFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read status file: %w", err)
	}

	var execution models.SweepExecution
	if err := json.Unmarshal(data, &execution); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sweep status: %w", err)
	}

	return &execution, nil
}
