package models

import (
	"time"

	"github.com/google/uuid"
)

// Dependency kinds as found in manifest files
const (
	DepTypeRuntime  = "runtime"
	DepTypeDev      = "dev"
	DepTypeOptional = "optional"
	DepTypePeer     = "peer"
)

// ProjectDependency is a declared dependency, keyed by
// (project, source manifest, package name) so the same package declared in
// two manifests stays as two rows.
type ProjectDependency struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Name        string    `json:"name"`
	VersionSpec *string   `json:"version_spec"`
	DepType     string    `json:"dep_type"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProjectDependency creates a new ProjectDependency with a generated UUID
func NewProjectDependency(projectID, name, depType, source string) *ProjectDependency {
	return &ProjectDependency{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		DepType:   depType,
		Source:    source,
	}
}
