package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/reposcope/reposcope/internal/models"
	"github.com/reposcope/reposcope/internal/repositories"
	"github.com/reposcope/reposcope/pkg/logger"
)

// JobService queues sync work for the background workers and executes
// claimed jobs against the sync engine.
type JobService struct {
	jobRepo     *repositories.JobRepository
	syncService *SyncService
}

func NewJobService(jobRepo *repositories.JobRepository, syncService *SyncService) *JobService {
	return &JobService{
		jobRepo:     jobRepo,
		syncService: syncService,
	}
}

// Enqueue creates a pending job
func (s *JobService) Enqueue(jobType, target string, opts models.SyncOptions) (*models.Job, error) {
	switch jobType {
	case models.JobTypeSyncRepo, models.JobTypeSyncUser, models.JobTypeSyncOrg:
	default:
		return nil, fmt.Errorf("unknown job type %q", jobType)
	}
	if target == "" {
		return nil, fmt.Errorf("job target is required")
	}

	job := models.NewJob(jobType, target)
	encoded, err := json.Marshal(opts)
	if err != nil {
		return nil, err
	}
	options := string(encoded)
	job.Options = &options

	if err := s.jobRepo.Create(job); err != nil {
		return nil, err
	}
	logger.WithFields(map[string]interface{}{
		"job_id": job.ID,
		"type":   jobType,
		"target": target,
	}).Info("Enqueued sync job")
	return job, nil
}

// ClaimNext picks up the oldest pending job of a type and marks it
// in-progress, nil when the queue is empty
func (s *JobService) ClaimNext(jobType string) (*models.Job, error) {
	job, err := s.jobRepo.GetNextPending(jobType)
	if err != nil || job == nil {
		return nil, err
	}

	job.MarkStarted()
	if err := s.jobRepo.Update(job); err != nil {
		return nil, err
	}
	return job, nil
}

// Execute runs a claimed job to completion and records the outcome
func (s *JobService) Execute(ctx context.Context, job *models.Job) error {
	opts := models.SyncOptions{}
	if job.Options != nil && *job.Options != "" {
		if err := json.Unmarshal([]byte(*job.Options), &opts); err != nil {
			return s.fail(job, fmt.Errorf("invalid job options: %w", err))
		}
	}

	var err error
	switch job.JobType {
	case models.JobTypeSyncRepo:
		var result *models.SyncResult
		result, err = s.syncService.SyncRepository(ctx, job.Target, opts)
		if err == nil && result.Status == models.SyncStatusFailed {
			err = fmt.Errorf("%s", result.Error)
		}
	case models.JobTypeSyncUser:
		err = s.executeBatch(ctx, job, opts, s.syncService.SyncUser)
	case models.JobTypeSyncOrg:
		err = s.executeBatch(ctx, job, opts, s.syncService.SyncOrg)
	default:
		err = fmt.Errorf("unknown job type %q", job.JobType)
	}

	if err != nil {
		return s.fail(job, err)
	}

	job.MarkCompleted()
	return s.jobRepo.Update(job)
}

func (s *JobService) executeBatch(
	ctx context.Context,
	job *models.Job,
	opts models.SyncOptions,
	run func(context.Context, string, models.SyncOptions) (*models.BatchSummary, error),
) error {
	summary, err := run(ctx, job.Target, opts)
	if err != nil {
		return err
	}
	if summary.Failed > 0 || summary.RateLimited {
		return fmt.Errorf("%s", summary.String())
	}
	return nil
}

func (s *JobService) fail(job *models.Job, cause error) error {
	logger.WithError(cause).WithField("job_id", job.ID).Error("Job failed")
	job.MarkFailed()
	job.SetError(cause.Error())
	return s.jobRepo.Update(job)
}

// GetByID retrieves one job
func (s *JobService) GetByID(id string) (*models.Job, error) {
	return s.jobRepo.GetByID(id)
}

// List retrieves recent jobs
func (s *JobService) List(limit int) ([]*models.Job, error) {
	return s.jobRepo.List(limit)
}
