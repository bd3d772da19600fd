package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectDocument is one heading-delimited section of a project's README,
// keyed by (project, slug). Sections are replaced together on each sync.
type ProjectDocument struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	SectionType string    `json:"section_type"`
	SourceFile  *string   `json:"source_file"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProjectDocument creates a new ProjectDocument with a generated UUID
func NewProjectDocument(projectID, slug, title, content string) *ProjectDocument {
	return &ProjectDocument{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Slug:        slug,
		Title:       title,
		Content:     content,
		SectionType: "readme",
	}
}
