package repositories

import (
	"database/sql"

	"github.com/reposcope/reposcope/internal/models"
)

type ReleaseRepository struct {
	db *sql.DB
}

func NewReleaseRepository(db *sql.DB) *ReleaseRepository {
	return &ReleaseRepository{
		db: db,
	}
}

// GetByProjectID retrieves a project's releases, most recently published first
func (r *ReleaseRepository) GetByProjectID(projectID string) ([]*models.ProjectRelease, error) {
	query := `
		SELECT id, project_id, tag_name, name, body, is_prerelease, is_draft, author, target_commitish,
			release_created_at, release_published_at, created_at, updated_at
		FROM project_releases
		WHERE project_id = $1
		ORDER BY release_published_at DESC, tag_name DESC
	`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var releases []*models.ProjectRelease
	for rows.Next() {
		release := &models.ProjectRelease{}
		err := rows.Scan(&release.ID, &release.ProjectID, &release.TagName, &release.Name, &release.Body,
			&release.IsPrerelease, &release.IsDraft, &release.Author, &release.TargetCommitish,
			&release.ReleaseCreatedAt, &release.ReleasePublishedAt, &release.CreatedAt, &release.UpdatedAt)
		if err != nil {
			return nil, err
		}
		releases = append(releases, release)
	}
	return releases, rows.Err()
}
