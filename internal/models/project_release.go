package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectRelease is a published release keyed by (project, tag name).
type ProjectRelease struct {
	ID                 string     `json:"id"`
	ProjectID          string     `json:"project_id"`
	TagName            string     `json:"tag_name"`
	Name               *string    `json:"name"`
	Body               *string    `json:"body"`
	IsPrerelease       bool       `json:"is_prerelease"`
	IsDraft            bool       `json:"is_draft"`
	Author             *string    `json:"author"`
	TargetCommitish    *string    `json:"target_commitish"`
	ReleaseCreatedAt   *time.Time `json:"release_created_at"`
	ReleasePublishedAt *time.Time `json:"release_published_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewProjectRelease creates a new ProjectRelease with a generated UUID
func NewProjectRelease(projectID, tagName string) *ProjectRelease {
	return &ProjectRelease{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		TagName:   tagName,
	}
}
