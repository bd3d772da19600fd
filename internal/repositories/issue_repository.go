package repositories

import (
	"database/sql"

	"github.com/reposcope/reposcope/internal/models"
)

type IssueRepository struct {
	db *sql.DB
}

func NewIssueRepository(db *sql.DB) *IssueRepository {
	return &IssueRepository{
		db: db,
	}
}

// GetByProjectID retrieves a project's issues, newest first. state narrows
// to open or closed when non-empty.
func (r *IssueRepository) GetByProjectID(projectID, state string) ([]*models.ProjectIssue, error) {
	query := `
		SELECT id, project_id, issue_number, title, state, author, labels, issue_created_at, issue_updated_at, created_at, updated_at
		FROM project_issues
		WHERE project_id = $1
	`
	args := []interface{}{projectID}
	if state != "" {
		query += ` AND state = $2`
		args = append(args, state)
	}
	query += ` ORDER BY issue_number DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []*models.ProjectIssue
	for rows.Next() {
		issue := &models.ProjectIssue{}
		err := rows.Scan(&issue.ID, &issue.ProjectID, &issue.IssueNumber, &issue.Title, &issue.State,
			&issue.Author, &issue.Labels, &issue.IssueCreatedAt, &issue.IssueUpdatedAt,
			&issue.CreatedAt, &issue.UpdatedAt)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}
