package repositories

import (
	"database/sql"

	"github.com/reposcope/reposcope/internal/models"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{
		db: db,
	}
}

const documentColumns = `id, project_id, slug, title, content, section_type, source_file, position, created_at`

// GetByProjectID retrieves a project's documentation sections in order
func (r *DocumentRepository) GetByProjectID(projectID string) ([]*models.ProjectDocument, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM project_documents
		WHERE project_id = $1
		ORDER BY position
	`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*models.ProjectDocument
	for rows.Next() {
		doc := &models.ProjectDocument{}
		err := rows.Scan(&doc.ID, &doc.ProjectID, &doc.Slug, &doc.Title, &doc.Content, &doc.SectionType,
			&doc.SourceFile, &doc.Position, &doc.CreatedAt)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}
	return documents, rows.Err()
}

// GetBySlug retrieves one documentation section
func (r *DocumentRepository) GetBySlug(projectID, slug string) (*models.ProjectDocument, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM project_documents
		WHERE project_id = $1 AND slug = $2
	`

	doc := &models.ProjectDocument{}
	err := r.db.QueryRow(query, projectID, slug).Scan(&doc.ID, &doc.ProjectID, &doc.Slug, &doc.Title,
		&doc.Content, &doc.SectionType, &doc.SourceFile, &doc.Position, &doc.CreatedAt)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
