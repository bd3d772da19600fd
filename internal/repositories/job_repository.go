package repositories

import (
	"database/sql"
	"time"

	"github.com/reposcope/reposcope/internal/models"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{
		db: db,
	}
}

const jobColumns = `id, job_type, target, options, status, error_message, created_at, started_at, completed_at`

// Create inserts a new job
func (r *JobRepository) Create(job *models.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	job.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(query,
		job.ID,
		job.JobType,
		job.Target,
		job.Options,
		job.Status,
		job.ErrorMessage,
		job.CreatedAt,
		job.StartedAt,
		job.CompletedAt,
	)

	return err
}

// GetByID retrieves a job by ID
func (r *JobRepository) GetByID(id string) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetNextPending retrieves the oldest pending job of a type, nil when
// the queue is empty
func (r *JobRepository) GetNextPending(jobType string) (*models.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE status = $1 AND job_type = $2
		ORDER BY created_at
		LIMIT 1
	`
	job, err := r.scanOne(r.db.QueryRow(query, models.JobStatusPending, jobType))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return job, err
}

// Update persists a job's status transition
func (r *JobRepository) Update(job *models.Job) error {
	query := `
		UPDATE jobs
		SET status = $2, error_message = $3, started_at = $4, completed_at = $5
		WHERE id = $1
	`
	_, err := r.db.Exec(query, job.ID, job.Status, job.ErrorMessage, job.StartedAt, job.CompletedAt)
	return err
}

// List retrieves recent jobs, newest first
func (r *JobRepository) List(limit int) ([]*models.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job := &models.Job{}
		err := rows.Scan(&job.ID, &job.JobType, &job.Target, &job.Options, &job.Status, &job.ErrorMessage,
			&job.CreatedAt, &job.StartedAt, &job.CompletedAt)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *JobRepository) scanOne(row *sql.Row) (*models.Job, error) {
	job := &models.Job{}
	err := row.Scan(&job.ID, &job.JobType, &job.Target, &job.Options, &job.Status, &job.ErrorMessage,
		&job.CreatedAt, &job.StartedAt, &job.CompletedAt)
	if err != nil {
		return nil, err
	}
	return job, nil
}
