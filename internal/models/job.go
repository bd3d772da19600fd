package models

import (
	"time"

	"github.com/google/uuid"
)

// Job types for the background sync queue
const (
	JobTypeSyncRepo = "sync_repo"
	JobTypeSyncUser = "sync_user"
	JobTypeSyncOrg  = "sync_org"
)

// Job statuses
const (
	JobStatusPending    = "pending"
	JobStatusInProgress = "in-progress"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Job is a queued background sync. Target is the owner/repo, username or
// org the job type applies to; Options carries the serialized SyncOptions.
type Job struct {
	ID           string     `json:"id"`
	JobType      string     `json:"job_type"`
	Target       string     `json:"target"`
	Options      *string    `json:"options"`
	Status       string     `json:"status"`
	ErrorMessage *string    `json:"error_message"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

// NewJob creates a new pending Job with a generated UUID
func NewJob(jobType, target string) *Job {
	return &Job{
		ID:      uuid.New().String(),
		JobType: jobType,
		Target:  target,
		Status:  JobStatusPending,
	}
}

// MarkStarted transitions the job to in-progress
func (j *Job) MarkStarted() {
	now := time.Now().UTC()
	j.Status = JobStatusInProgress
	j.StartedAt = &now
}

// MarkCompleted transitions the job to completed
func (j *Job) MarkCompleted() {
	now := time.Now().UTC()
	j.Status = JobStatusCompleted
	j.CompletedAt = &now
}

// MarkFailed transitions the job to failed
func (j *Job) MarkFailed() {
	now := time.Now().UTC()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
}

// SetError records the failure message for the job
func (j *Job) SetError(msg string) {
	j.ErrorMessage = &msg
}
