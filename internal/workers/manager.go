package workers

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/reposcope/reposcope/internal/models"
	"github.com/reposcope/reposcope/internal/services"
	"github.com/reposcope/reposcope/pkg/logger"
)

// WorkerManager manages the background sync workers
type WorkerManager struct {
	workers    []Worker
	jobService *services.JobService
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWorkerManager creates a new worker manager
func NewWorkerManager(jobService *services.JobService) *WorkerManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerManager{
		workers:    make([]Worker, 0),
		jobService: jobService,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// StartAll starts workers based on environment configuration. Repo, user
// and org sync share one queue table but poll distinct job types.
func (wm *WorkerManager) StartAll() error {
	repoWorkers := wm.getWorkerCount("SYNC_REPO_WORKERS", 1)
	userWorkers := wm.getWorkerCount("SYNC_USER_WORKERS", 1)
	orgWorkers := wm.getWorkerCount("SYNC_ORG_WORKERS", 1)

	logger.WithFields(map[string]interface{}{
		"repo": repoWorkers,
		"user": userWorkers,
		"org":  orgWorkers,
	}).Info("Starting sync workers")

	for i := 0; i < repoWorkers; i++ {
		wm.startWorker(NewSyncWorker(fmt.Sprintf("sync-repo-%d", i+1), models.JobTypeSyncRepo, wm.jobService))
	}
	for i := 0; i < userWorkers; i++ {
		wm.startWorker(NewSyncWorker(fmt.Sprintf("sync-user-%d", i+1), models.JobTypeSyncUser, wm.jobService))
	}
	for i := 0; i < orgWorkers; i++ {
		wm.startWorker(NewSyncWorker(fmt.Sprintf("sync-org-%d", i+1), models.JobTypeSyncOrg, wm.jobService))
	}

	logger.Infof("Started %d total workers", len(wm.workers))
	return nil
}

// StopAll gracefully stops all workers
func (wm *WorkerManager) StopAll() error {
	logger.Infof("Stopping all workers...")

	wm.cancel()
	for _, worker := range wm.workers {
		if err := worker.Stop(); err != nil {
			logger.WithError(err).WithField("worker", worker.GetWorkerID()).Error("Failed to stop worker")
		}
	}
	wm.wg.Wait()

	logger.Infof("All workers stopped")
	return nil
}

// GetWorkerStatus returns the running state of every worker
func (wm *WorkerManager) GetWorkerStatus() map[string]bool {
	status := make(map[string]bool)
	for _, worker := range wm.workers {
		if syncWorker, ok := worker.(*SyncWorker); ok {
			status[worker.GetWorkerID()] = syncWorker.IsRunning()
		} else {
			status[worker.GetWorkerID()] = false
		}
	}
	return status
}

func (wm *WorkerManager) getWorkerCount(envVar string, defaultValue int) int {
	if value := os.Getenv(envVar); value != "" {
		if count, err := strconv.Atoi(value); err == nil && count > 0 {
			return count
		}
		logger.Warnf("Invalid value for %s, using default: %d", envVar, defaultValue)
	}
	return defaultValue
}

func (wm *WorkerManager) startWorker(worker Worker) {
	wm.workers = append(wm.workers, worker)
	wm.wg.Add(1)
	go func() {
		defer wm.wg.Done()
		if err := worker.Start(wm.ctx); err != nil && err != context.Canceled {
			logger.WithError(err).WithField("worker", worker.GetWorkerID()).Error("Worker stopped with error")
		}
	}()
}
