package repositories

import (
	"database/sql"

	"github.com/reposcope/reposcope/internal/models"
)

type LanguageRepository struct {
	db *sql.DB
}

func NewLanguageRepository(db *sql.DB) *LanguageRepository {
	return &LanguageRepository{
		db: db,
	}
}

// GetByProjectID retrieves a project's language breakdown, largest first
func (r *LanguageRepository) GetByProjectID(projectID string) ([]*models.ProjectLanguage, error) {
	query := `
		SELECT id, project_id, language, bytes_count, percentage, file_extensions, encoding, created_at
		FROM project_languages
		WHERE project_id = $1
		ORDER BY bytes_count DESC, language
	`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var languages []*models.ProjectLanguage
	for rows.Next() {
		lang := &models.ProjectLanguage{}
		err := rows.Scan(&lang.ID, &lang.ProjectID, &lang.Language, &lang.BytesCount, &lang.Percentage,
			&lang.FileExtensions, &lang.Encoding, &lang.CreatedAt)
		if err != nil {
			return nil, err
		}
		languages = append(languages, lang)
	}
	return languages, rows.Err()
}
