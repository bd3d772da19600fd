package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectBranch is a branch of a project's repository, keyed by
// (project, name), with a summary of its latest commit.
type ProjectBranch struct {
	ID            string     `json:"id"`
	ProjectID     string     `json:"project_id"`
	Name          string     `json:"name"`
	IsDefault     bool       `json:"is_default"`
	IsProtected   bool       `json:"is_protected"`
	CommitSHA     *string    `json:"commit_sha"`
	CommitMessage *string    `json:"commit_message"`
	CommitAuthor  *string    `json:"commit_author"`
	CommitDate    *time.Time `json:"commit_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewProjectBranch creates a new ProjectBranch with a generated UUID
func NewProjectBranch(projectID, name string) *ProjectBranch {
	return &ProjectBranch{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
	}
}
