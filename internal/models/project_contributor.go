package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectContributor is one entry of a project's ranked contributor
// snapshot. The snapshot is replaced wholesale on every sync because
// contribution counts are aggregates computed remotely.
type ProjectContributor struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	Username      string    `json:"username"`
	AvatarURL     *string   `json:"avatar_url"`
	Contributions int       `json:"contributions"`
	ProfileURL    *string   `json:"profile_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewProjectContributor creates a new ProjectContributor with a generated UUID
func NewProjectContributor(projectID, username string, contributions int) *ProjectContributor {
	return &ProjectContributor{
		ID:            uuid.New().String(),
		ProjectID:     projectID,
		Username:      username,
		Contributions: contributions,
	}
}
