package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectIssue is an issue keyed by (project, issue number). Issue numbers
// are only unique within one repository.
type ProjectIssue struct {
	ID             string     `json:"id"`
	ProjectID      string     `json:"project_id"`
	IssueNumber    int        `json:"issue_number"`
	Title          string     `json:"title"`
	State          string     `json:"state"`
	Author         *string    `json:"author"`
	Labels         *string    `json:"labels"`
	IssueCreatedAt *time.Time `json:"issue_created_at"`
	IssueUpdatedAt *time.Time `json:"issue_updated_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewProjectIssue creates a new ProjectIssue with a generated UUID
func NewProjectIssue(projectID string, number int, title string) *ProjectIssue {
	return &ProjectIssue{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		IssueNumber: number,
		Title:       title,
		State:       "open",
	}
}
