package repositories

import (
	"database/sql"

	"github.com/reposcope/reposcope/internal/models"
)

type BranchRepository struct {
	db *sql.DB
}

func NewBranchRepository(db *sql.DB) *BranchRepository {
	return &BranchRepository{
		db: db,
	}
}

// GetByProjectID retrieves a project's branches, default branch first
func (r *BranchRepository) GetByProjectID(projectID string) ([]*models.ProjectBranch, error) {
	query := `
		SELECT id, project_id, name, is_default, is_protected, commit_sha, commit_message, commit_author, commit_date, created_at, updated_at
		FROM project_branches
		WHERE project_id = $1
		ORDER BY is_default DESC, name
	`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []*models.ProjectBranch
	for rows.Next() {
		branch := &models.ProjectBranch{}
		err := rows.Scan(&branch.ID, &branch.ProjectID, &branch.Name, &branch.IsDefault, &branch.IsProtected,
			&branch.CommitSHA, &branch.CommitMessage, &branch.CommitAuthor, &branch.CommitDate,
			&branch.CreatedAt, &branch.UpdatedAt)
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}
	return branches, rows.Err()
}
