package repositories

import (
	"database/sql"
	"time"

	"github.com/reposcope/reposcope/internal/models"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{
		db: db,
	}
}

const projectColumns = `id, name, full_name, description, repository_url, github_owner, github_repo,
		primary_language, stars, forks, watchers, license, default_branch, visibility, is_fork,
		topics, last_synced_at, github_created_at, github_updated_at, created_at, updated_at`

// Create inserts a new project
func (r *ProjectRepository) Create(project *models.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := r.db.Exec(query,
		project.ID,
		project.Name,
		project.FullName,
		project.Description,
		project.RepositoryURL,
		project.GithubOwner,
		project.GithubRepo,
		project.PrimaryLanguage,
		project.Stars,
		project.Forks,
		project.Watchers,
		project.License,
		project.DefaultBranch,
		project.Visibility,
		project.IsFork,
		project.Topics,
		project.LastSyncedAt,
		project.GithubCreatedAt,
		project.GithubUpdatedAt,
		project.CreatedAt,
		project.UpdatedAt,
	)

	return err
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(id string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByName retrieves a project by its natural key
func (r *ProjectRepository) GetByName(name string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE name = $1`
	return r.scanOne(r.db.QueryRow(query, name))
}

// GetByOwnerRepo retrieves a project by its GitHub coordinates
func (r *ProjectRepository) GetByOwnerRepo(owner, repo string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE github_owner = $1 AND github_repo = $2`
	return r.scanOne(r.db.QueryRow(query, owner, repo))
}

// ProjectFilter narrows List results. Zero values mean no filtering.
type ProjectFilter struct {
	Language  string
	SkipForks bool
	Limit     int
}

// List retrieves projects ordered by name
func (r *ProjectRepository) List(filter ProjectFilter) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE 1=1`
	var args []interface{}

	if filter.Language != "" {
		args = append(args, filter.Language)
		query += ` AND primary_language = $` + itoa(len(args))
	}
	if filter.SkipForks {
		query += ` AND is_fork = 0`
	}
	query += ` ORDER BY name`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + itoa(len(args))
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

// Update persists the mutable fields of a project
func (r *ProjectRepository) Update(project *models.Project) error {
	query := `
		UPDATE projects
		SET full_name = $2, description = $3, repository_url = $4, github_owner = $5,
			github_repo = $6, primary_language = $7, stars = $8, forks = $9, watchers = $10,
			license = $11, default_branch = $12, visibility = $13, is_fork = $14, topics = $15,
			last_synced_at = $16, github_created_at = $17, github_updated_at = $18, updated_at = $19
		WHERE id = $1
	`

	project.UpdatedAt = time.Now().UTC()

	_, err := r.db.Exec(query,
		project.ID,
		project.FullName,
		project.Description,
		project.RepositoryURL,
		project.GithubOwner,
		project.GithubRepo,
		project.PrimaryLanguage,
		project.Stars,
		project.Forks,
		project.Watchers,
		project.License,
		project.DefaultBranch,
		project.Visibility,
		project.IsFork,
		project.Topics,
		project.LastSyncedAt,
		project.GithubCreatedAt,
		project.GithubUpdatedAt,
		project.UpdatedAt,
	)

	return err
}

// Delete removes a project; child rows cascade
func (r *ProjectRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM projects WHERE id = $1`, id)
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

// Count returns the number of cached projects
func (r *ProjectRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&count)
	return count, err
}

func (r *ProjectRepository) scanOne(row *sql.Row) (*models.Project, error) {
	project := &models.Project{}
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.FullName,
		&project.Description,
		&project.RepositoryURL,
		&project.GithubOwner,
		&project.GithubRepo,
		&project.PrimaryLanguage,
		&project.Stars,
		&project.Forks,
		&project.Watchers,
		&project.License,
		&project.DefaultBranch,
		&project.Visibility,
		&project.IsFork,
		&project.Topics,
		&project.LastSyncedAt,
		&project.GithubCreatedAt,
		&project.GithubUpdatedAt,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *ProjectRepository) scanMany(rows *sql.Rows) ([]*models.Project, error) {
	var projects []*models.Project
	for rows.Next() {
		project := &models.Project{}
		err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.FullName,
			&project.Description,
			&project.RepositoryURL,
			&project.GithubOwner,
			&project.GithubRepo,
			&project.PrimaryLanguage,
			&project.Stars,
			&project.Forks,
			&project.Watchers,
			&project.License,
			&project.DefaultBranch,
			&project.Visibility,
			&project.IsFork,
			&project.Topics,
			&project.LastSyncedAt,
			&project.GithubCreatedAt,
			&project.GithubUpdatedAt,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}
