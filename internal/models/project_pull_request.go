package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectPullRequest is a pull request keyed by (project, PR number).
// State is open, closed or merged.
type ProjectPullRequest struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	PRNumber    int        `json:"pr_number"`
	Title       string     `json:"title"`
	State       string     `json:"state"`
	Author      *string    `json:"author"`
	BaseBranch  *string    `json:"base_branch"`
	HeadBranch  *string    `json:"head_branch"`
	IsDraft     bool       `json:"is_draft"`
	IsMerged    bool       `json:"is_merged"`
	Additions   int        `json:"additions"`
	Deletions   int        `json:"deletions"`
	Labels      *string    `json:"labels"`
	PRCreatedAt *time.Time `json:"pr_created_at"`
	PRUpdatedAt *time.Time `json:"pr_updated_at"`
	PRMergedAt  *time.Time `json:"pr_merged_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewProjectPullRequest creates a new ProjectPullRequest with a generated UUID
func NewProjectPullRequest(projectID string, number int, title string) *ProjectPullRequest {
	return &ProjectPullRequest{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		PRNumber:  number,
		Title:     title,
		State:     "open",
	}
}
