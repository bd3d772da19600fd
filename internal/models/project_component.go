package models

import (
	"errors"
	"time"
)

// ErrSelfComponent is returned when a component edge would point a project
// at itself.
var ErrSelfComponent = errors.New("project cannot be a component of itself")

// ProjectComponent is a directed edge between two cached projects,
// keyed by (parent, child, relationship type).
type ProjectComponent struct {
	ParentID         string    `json:"parent_id"`
	ChildID          string    `json:"child_id"`
	RelationshipType string    `json:"relationship_type"`
	Position         int       `json:"position"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewProjectComponent creates a component edge, rejecting self-loops
func NewProjectComponent(parentID, childID, relationshipType string) (*ProjectComponent, error) {
	if parentID == childID {
		return nil, ErrSelfComponent
	}
	if relationshipType == "" {
		relationshipType = "component"
	}
	return &ProjectComponent{
		ParentID:         parentID,
		ChildID:          childID,
		RelationshipType: relationshipType,
	}, nil
}
