package repositories

import (
	"database/sql"

	"github.com/reposcope/reposcope/internal/models"
)

type VersionRepository struct {
	db *sql.DB
}

func NewVersionRepository(db *sql.DB) *VersionRepository {
	return &VersionRepository{
		db: db,
	}
}

const versionColumns = `id, project_id, version, major, minor, patch, prerelease, build_metadata, source, is_latest, release_url, release_date, created_at`

// GetByProjectID retrieves a project's versions, newest release first
func (r *VersionRepository) GetByProjectID(projectID string) ([]*models.ProjectVersion, error) {
	query := `
		SELECT ` + versionColumns + `
		FROM project_versions
		WHERE project_id = $1
		ORDER BY release_date DESC, version DESC
	`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []*models.ProjectVersion
	for rows.Next() {
		version, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}
	return versions, rows.Err()
}

// GetLatest retrieves the version flagged latest, nil when none is
func (r *VersionRepository) GetLatest(projectID string) (*models.ProjectVersion, error) {
	query := `
		SELECT ` + versionColumns + `
		FROM project_versions
		WHERE project_id = $1 AND is_latest = 1
	`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return r.scan(rows)
}

func (r *VersionRepository) scan(rows *sql.Rows) (*models.ProjectVersion, error) {
	version := &models.ProjectVersion{}
	err := rows.Scan(&version.ID, &version.ProjectID, &version.Version, &version.Major, &version.Minor,
		&version.Patch, &version.Prerelease, &version.BuildMetadata, &version.Source, &version.IsLatest,
		&version.ReleaseURL, &version.ReleaseDate, &version.CreatedAt)
	if err != nil {
		return nil, err
	}
	return version, nil
}
