package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectLanguage is one row of a project's language breakdown. Rows for a
// project are always replaced together so percentages stay consistent.
type ProjectLanguage struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	Language       string    `json:"language"`
	BytesCount     int64     `json:"bytes_count"`
	Percentage     float64   `json:"percentage"`
	FileExtensions *string   `json:"file_extensions"`
	Encoding       *string   `json:"encoding"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewProjectLanguage creates a new ProjectLanguage with a generated UUID
func NewProjectLanguage(projectID, language string, bytesCount int64, percentage float64) *ProjectLanguage {
	return &ProjectLanguage{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		Language:   language,
		BytesCount: bytesCount,
		Percentage: percentage,
	}
}
