package repositories

import (
	"database/sql"
	"time"

	"github.com/reposcope/reposcope/internal/models"
)

type ComponentRepository struct {
	db *sql.DB
}

func NewComponentRepository(db *sql.DB) *ComponentRepository {
	return &ComponentRepository{
		db: db,
	}
}

// Create inserts a component edge; re-adding an existing edge is a no-op
func (r *ComponentRepository) Create(component *models.ProjectComponent) error {
	query := `
		INSERT INTO project_components (parent_id, child_id, relationship_type, position, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT(parent_id, child_id, relationship_type) DO NOTHING
	`

	component.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(query,
		component.ParentID,
		component.ChildID,
		component.RelationshipType,
		component.Position,
		component.CreatedAt,
	)

	return err
}

// Delete removes a component edge
func (r *ComponentRepository) Delete(parentID, childID, relationshipType string) error {
	result, err := r.db.Exec(
		`DELETE FROM project_components WHERE parent_id = $1 AND child_id = $2 AND relationship_type = $3`,
		parentID, childID, relationshipType,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetChildren retrieves the component edges under a parent project
func (r *ComponentRepository) GetChildren(parentID string) ([]*models.ProjectComponent, error) {
	return r.query(`SELECT parent_id, child_id, relationship_type, position, created_at
		FROM project_components WHERE parent_id = $1 ORDER BY position, child_id`, parentID)
}

// GetParents retrieves the component edges pointing at a child project
func (r *ComponentRepository) GetParents(childID string) ([]*models.ProjectComponent, error) {
	return r.query(`SELECT parent_id, child_id, relationship_type, position, created_at
		FROM project_components WHERE child_id = $1 ORDER BY position, parent_id`, childID)
}

func (r *ComponentRepository) query(query string, arg interface{}) ([]*models.ProjectComponent, error) {
	rows, err := r.db.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []*models.ProjectComponent
	for rows.Next() {
		component := &models.ProjectComponent{}
		err := rows.Scan(&component.ParentID, &component.ChildID, &component.RelationshipType,
			&component.Position, &component.CreatedAt)
		if err != nil {
			return nil, err
		}
		components = append(components, component)
	}
	return components, rows.Err()
}
