package worker

import (
	"context"
	"disasterlink-backend/models"
	"disasterlink-backend/utils/logger"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron"
)

// Worker wraps models.SweepWorker so methods can be defined without copying
// its mutex.
type Worker struct {
	Worker *models.SweepWorker
}

// NewWorker builds the periodic sweep worker. The lock file keeps sweeps
// single-flight when several instances share a host; the status file makes
// the last outcome queryable over HTTP.
func NewWorker(ctx context.Context, cfg *models.Config, log logger.Logger, runner models.SweepRunner) (*models.SweepWorker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if runner == nil {
		return nil, fmt.Errorf("sweep runner cannot be nil")
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname = "localhost"
	}
	ownerID := fmt.Sprintf("sweeper-%s-%s", hostname, uuid.New().String()[:8])

	workerConfig := &models.SweepWorkerConfig{
		CronSchedule:   cfg.SweepCronSchedule,
		SweepTimeout:   5 * time.Minute,
		LockTimeout:    10 * time.Minute,
		Environment:    cfg.AppEnv,
		LockFilePath:   fmt.Sprintf("/tmp/disasterlink-sweep-%s.lock", cfg.AppEnv),
		StatusFilePath: fmt.Sprintf("/tmp/disasterlink-sweep-status-%s.json", cfg.AppEnv),
		RunOnStart:     cfg.AppEnv != "development",
	}

	if err := validateWorkerConfig(workerConfig); err != nil {
		return nil, fmt.Errorf("invalid worker configuration: %w", err)
	}

	lockManager := NewLockManager(workerConfig.LockFilePath, workerConfig.LockTimeout, workerConfig.Environment)
	statusManager := NewStatusManager(workerConfig.StatusFilePath)

	workerCtx, cancel := context.WithCancel(ctx)

	return &models.SweepWorker{
		Config:        cfg,
		Logger:        log,
		CronJob:       cron.New(),
		LockManager:   &lockManager.LockManager,
		StatusManager: &statusManager.StatusManager,
		Runner:        runner,
		WorkerConfig:  workerConfig,
		OwnerID:       ownerID,
		StopChan:      make(chan struct{}),
		Ctx:           workerCtx,
		Cancel:        cancel,
	}, nil
}

func validateWorkerConfig(config *models.SweepWorkerConfig) error {
	if config.CronSchedule == "" {
		return fmt.Errorf("cron schedule is required")
	}
	if config.LockFilePath == "" || config.StatusFilePath == "" {
		return fmt.Errorf("lock and status file paths are required")
	}
	if config.SweepTimeout <= 0 {
		return fmt.Errorf("sweep timeout must be positive")
	}
	return nil
}

// Start schedules the sweep on the configured cron expression.
func (w *Worker) Start() error {
	w.Worker.Mu.Lock()
	defer w.Worker.Mu.Unlock()

	if w.Worker.IsRunning {
		return fmt.Errorf("worker is already running")
	}

	select {
	case <-w.Worker.Ctx.Done():
		return fmt.Errorf("worker context is cancelled, cannot start")
	default:
	}

	w.Worker.Logger.Infof("Starting sweep worker %s with schedule %s",
		w.Worker.OwnerID, w.Worker.WorkerConfig.CronSchedule)

	if err := w.Worker.CronJob.AddFunc(w.Worker.WorkerConfig.CronSchedule, w.executeSweepJob); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	w.Worker.CronJob.Start()
	w.Worker.IsRunning = true

	if w.Worker.WorkerConfig.RunOnStart {
		go w.executeSweepJob()
	}

	return nil
}

// Stop halts the scheduler and releases worker resources.
func (w *Worker) Stop() error {
	w.Worker.Mu.Lock()
	defer w.Worker.Mu.Unlock()

	if !w.Worker.IsRunning {
		return nil
	}

	w.Worker.Logger.Info("Stopping sweep worker")
	w.Worker.CronJob.Stop()
	w.Worker.Cancel()
	close(w.Worker.StopChan)
	w.Worker.IsRunning = false

	return nil
}

// IsRunning reports whether the scheduler is active.
func (w *Worker) IsRunning() bool {
	w.Worker.Mu.RLock()
	defer w.Worker.Mu.RUnlock()
	return w.Worker.IsRunning
}

// GetStatus returns the persisted record of the last sweep.
func (w *Worker) GetStatus() (*models.SweepExecution, error) {
	statusManager := &StatusManager{StatusManager: *w.Worker.StatusManager}
	return statusManager.LoadStatus()
}

func (w *Worker) executeSweepJob() {
	ctx, cancel := context.WithTimeout(w.Worker.Ctx, w.Worker.WorkerConfig.SweepTimeout)
	defer cancel()

	w.executeSweep(ctx)
}

func (w *Worker) executeSweep(ctx context.Context) {
	log := w.Worker.Logger
	lockManager := &LockManager{LockManager: *w.Worker.LockManager}
	statusManager := &StatusManager{StatusManager: *w.Worker.StatusManager}

	if err := lockManager.CleanupExpiredLocks(); err != nil {
		log.Warnf("Failed to clean up expired sweep locks: %v", err)
	}

	lockInfo, err := lockManager.AcquireLock(w.Worker.OwnerID)
	if err != nil {
		log.Debugf("Sweep skipped, lock not acquired: %v", err)
		w.saveStatus(statusManager, &models.SweepExecution{
			Status:       models.SweepStatusSkipped,
			StartTime:    time.Now(),
			ErrorMessage: err.Error(),
			Environment:  w.Worker.WorkerConfig.Environment,
			Owner:        w.Worker.OwnerID,
		})
		return
	}
	defer func() {
		if err := lockManager.ReleaseLock(lockInfo); err != nil {
			log.Warnf("Failed to release sweep lock: %v", err)
		}
	}()

	execution := &models.SweepExecution{
		Status:      models.SweepStatusRunning,
		StartTime:   time.Now(),
		Environment: w.Worker.WorkerConfig.Environment,
		Owner:       w.Worker.OwnerID,
	}
	w.saveStatus(statusManager, execution)

	result, err := w.Worker.Runner.AutoAssignSweep(ctx)
	if err != nil {
		log.Errorf("Sweep failed: %v", err)
		execution.Status = models.SweepStatusFailed
		execution.ErrorMessage = err.Error()
		w.saveStatus(statusManager, execution)
		return
	}

	execution.Status = models.SweepStatusCompleted
	execution.Result = result
	w.saveStatus(statusManager, execution)

	log.Infof("Sweep finished: %d assigned, %d skipped", len(result.Assigned), len(result.Skipped))
}

func (w *Worker) saveStatus(statusManager *StatusManager, execution *models.SweepExecution) {
	if err := statusManager.SaveStatus(execution); err != nil {
		w.Worker.Logger.Warnf("Failed to persist sweep status: %v", err)
	}
}
