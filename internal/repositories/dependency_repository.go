package repositories

import (
	"database/sql"

	"github.com/reposcope/reposcope/internal/models"
)

type DependencyRepository struct {
	db *sql.DB
}

func NewDependencyRepository(db *sql.DB) *DependencyRepository {
	return &DependencyRepository{
		db: db,
	}
}

const dependencyColumns = `id, project_id, name, version_spec, dep_type, source, created_at, updated_at`

// GetByProjectID retrieves a project's declared dependencies
func (r *DependencyRepository) GetByProjectID(projectID string) ([]*models.ProjectDependency, error) {
	query := `
		SELECT ` + dependencyColumns + `
		FROM project_dependencies
		WHERE project_id = $1
		ORDER BY source, dep_type, name
	`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

// GetByPackageName retrieves every dependency row declaring a package,
// the reverse lookup behind "which projects use X"
func (r *DependencyRepository) GetByPackageName(name string) ([]*models.ProjectDependency, error) {
	query := `
		SELECT ` + dependencyColumns + `
		FROM project_dependencies
		WHERE name = $1
		ORDER BY project_id, source
	`

	rows, err := r.db.Query(query, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

func (r *DependencyRepository) scanMany(rows *sql.Rows) ([]*models.ProjectDependency, error) {
	var deps []*models.ProjectDependency
	for rows.Next() {
		dep := &models.ProjectDependency{}
		err := rows.Scan(&dep.ID, &dep.ProjectID, &dep.Name, &dep.VersionSpec, &dep.DepType, &dep.Source,
			&dep.CreatedAt, &dep.UpdatedAt)
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, rows.Err()
}
