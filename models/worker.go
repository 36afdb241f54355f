package models

import (
	"context"
	"disasterlink-backend/utils/logger"
	"sync"
	"time"

	"github.com/robfig/cron"
)

// SweepRunner abstracts the assignment coordinator for the worker, avoiding a
// models -> services dependency.
type SweepRunner interface {
	AutoAssignSweep(ctx context.Context) (*SweepResult, error)
}

// StatusManager persists the latest sweep outcome to a status file
type StatusManager struct {
	StatusFilePath string
}

// LockManager handles the file lock that keeps sweeps single-flight
type LockManager struct {
	LockFilePath string
	LockTimeout  time.Duration
	Environment  string
}

// SweepWorker runs the auto-assign sweep on a cron schedule
type SweepWorker struct {
	Config        *Config
	Logger        logger.Logger
	CronJob       *cron.Cron
	LockManager   *LockManager
	StatusManager *StatusManager
	Runner        SweepRunner

	WorkerConfig *SweepWorkerConfig
	OwnerID      string
	IsRunning    bool
	StopChan     chan struct{}

	Mu     sync.RWMutex
	Ctx    context.Context
	Cancel context.CancelFunc
}

// SweepWorkerConfig holds configuration for the sweep worker
type SweepWorkerConfig struct {
	CronSchedule string        `json:"cron_schedule"`
	SweepTimeout time.Duration `json:"sweep_timeout"`
	LockTimeout  time.Duration `json:"lock_timeout"`

	Environment    string `json:"environment"`
	LockFilePath   string `json:"lock_file_path"`
	StatusFilePath string `json:"status_file_path"`

	RunOnStart bool `json:"run_on_start"`
}

// LockInfo represents file lock information
type LockInfo struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	AcquiredAt  time.Time `json:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Environment string    `json:"environment"`
}

// SweepStatus represents the current state of the sweep worker
type SweepStatus string

const (
	SweepStatusIdle      SweepStatus = "idle"
	SweepStatusRunning   SweepStatus = "running"
	SweepStatusCompleted SweepStatus = "completed"
	SweepStatusFailed    SweepStatus = "failed"
	SweepStatusSkipped   SweepStatus = "skipped"
)

// SweepExecution holds the persisted record of the most recent sweep
type SweepExecution struct {
	Status       SweepStatus   `json:"status"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      *time.Time    `json:"end_time,omitempty"`
	Duration     time.Duration `json:"duration"`
	Result       *SweepResult  `json:"result,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Environment  string        `json:"environment"`
	Owner        string        `json:"owner"`
}
