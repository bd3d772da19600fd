package repositories

import (
	"database/sql"

	"github.com/reposcope/reposcope/internal/models"
)

type PullRequestRepository struct {
	db *sql.DB
}

func NewPullRequestRepository(db *sql.DB) *PullRequestRepository {
	return &PullRequestRepository{
		db: db,
	}
}

// GetByProjectID retrieves a project's pull requests, newest first. state
// narrows to open, closed or merged when non-empty.
func (r *PullRequestRepository) GetByProjectID(projectID, state string) ([]*models.ProjectPullRequest, error) {
	query := `
		SELECT id, project_id, pr_number, title, state, author, base_branch, head_branch, is_draft, is_merged,
			additions, deletions, labels, pr_created_at, pr_updated_at, pr_merged_at, created_at, updated_at
		FROM project_pull_requests
		WHERE project_id = $1
	`
	args := []interface{}{projectID}
	if state != "" {
		query += ` AND state = $2`
		args = append(args, state)
	}
	query += ` ORDER BY pr_number DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prs []*models.ProjectPullRequest
	for rows.Next() {
		pr := &models.ProjectPullRequest{}
		err := rows.Scan(&pr.ID, &pr.ProjectID, &pr.PRNumber, &pr.Title, &pr.State, &pr.Author,
			&pr.BaseBranch, &pr.HeadBranch, &pr.IsDraft, &pr.IsMerged, &pr.Additions, &pr.Deletions,
			&pr.Labels, &pr.PRCreatedAt, &pr.PRUpdatedAt, &pr.PRMergedAt, &pr.CreatedAt, &pr.UpdatedAt)
		if err != nil {
			return nil, err
		}
		prs = append(prs, pr)
	}
	return prs, rows.Err()
}
