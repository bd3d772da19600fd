package repositories

import (
	"database/sql"

	"github.com/reposcope/reposcope/internal/models"
)

type ContributorRepository struct {
	db *sql.DB
}

func NewContributorRepository(db *sql.DB) *ContributorRepository {
	return &ContributorRepository{
		db: db,
	}
}

// GetByProjectID retrieves a project's contributors ranked by contributions
func (r *ContributorRepository) GetByProjectID(projectID string) ([]*models.ProjectContributor, error) {
	query := `
		SELECT id, project_id, username, avatar_url, contributions, profile_url, created_at
		FROM project_contributors
		WHERE project_id = $1
		ORDER BY contributions DESC, username
	`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contributors []*models.ProjectContributor
	for rows.Next() {
		contributor := &models.ProjectContributor{}
		err := rows.Scan(&contributor.ID, &contributor.ProjectID, &contributor.Username, &contributor.AvatarURL,
			&contributor.Contributions, &contributor.ProfileURL, &contributor.CreatedAt)
		if err != nil {
			return nil, err
		}
		contributors = append(contributors, contributor)
	}
	return contributors, rows.Err()
}
