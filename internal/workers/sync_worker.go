package workers

import (
	"context"
	"time"

	"github.com/reposcope/reposcope/internal/services"
	"github.com/reposcope/reposcope/pkg/logger"
)

const (
	idlePollInterval  = 10 * time.Second
	errorPollInterval = 5 * time.Second
)

// SyncWorker drains one job type of the sync queue. Sync jobs hit the
// shared GitHub rate budget, so one worker per type is usually enough.
type SyncWorker struct {
	*BaseWorker
	jobService *services.JobService
}

// NewSyncWorker creates a worker for one sync job type
func NewSyncWorker(workerID, jobType string, jobService *services.JobService) *SyncWorker {
	return &SyncWorker{
		BaseWorker: NewBaseWorker(workerID, jobType),
		jobService: jobService,
	}
}

// Start begins the sync worker poll loop
func (w *SyncWorker) Start(ctx context.Context) error {
	w.Running = true
	logger.WithField("worker", w.WorkerID).Info("Sync worker started")

	for {
		select {
		case <-ctx.Done():
			logger.WithField("worker", w.WorkerID).Info("Sync worker stopping, context cancelled")
			return ctx.Err()
		case <-w.StopChan:
			logger.WithField("worker", w.WorkerID).Info("Sync worker stopping")
			return nil
		default:
			job, err := w.jobService.ClaimNext(w.JobType)
			if err != nil {
				logger.WithError(err).WithField("worker", w.WorkerID).Error("Failed to claim job")
				w.sleep(ctx, errorPollInterval)
				continue
			}
			if job == nil {
				w.sleep(ctx, idlePollInterval)
				continue
			}

			if err := w.jobService.Execute(ctx, job); err != nil {
				logger.WithError(err).WithFields(map[string]interface{}{
					"worker": w.WorkerID,
					"job_id": job.ID,
				}).Error("Failed to record job outcome")
			}
		}
	}
}

func (w *SyncWorker) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-w.StopChan:
	case <-time.After(d):
	}
}
