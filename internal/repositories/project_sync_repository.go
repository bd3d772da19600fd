package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/reposcope/reposcope/internal/models"
)

// ProjectSyncRepository persists a full sync snapshot in one transaction.
// Either every section of the snapshot lands or none of it does, so a
// mid-persist failure can never leave a half-updated project.
type ProjectSyncRepository struct {
	db *sql.DB
}

func NewProjectSyncRepository(db *sql.DB) *ProjectSyncRepository {
	return &ProjectSyncRepository{
		db: db,
	}
}

// PersistSync writes a snapshot. The project row is upserted by its
// natural key; snapshot sections replace, merge sections upsert.
func (r *ProjectSyncRepository) PersistSync(snapshot *models.SyncSnapshot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin sync transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if err := r.upsertProject(tx, snapshot.Project, now); err != nil {
		return fmt.Errorf("failed to persist project: %w", err)
	}

	projectID := snapshot.Project.ID
	if snapshot.LanguagesFetched {
		if err := r.replaceLanguages(tx, projectID, snapshot.Languages, now); err != nil {
			return fmt.Errorf("failed to persist languages: %w", err)
		}
	}
	if snapshot.ContributorsFetched {
		if err := r.replaceContributors(tx, projectID, snapshot.Contributors, now); err != nil {
			return fmt.Errorf("failed to persist contributors: %w", err)
		}
	}
	if snapshot.DocumentsFetched {
		if err := r.replaceDocuments(tx, projectID, snapshot.Documents, now); err != nil {
			return fmt.Errorf("failed to persist documents: %w", err)
		}
	}
	if err := r.upsertBranches(tx, snapshot.Branches, now); err != nil {
		return fmt.Errorf("failed to persist branches: %w", err)
	}
	if err := r.upsertIssues(tx, snapshot.Issues, now); err != nil {
		return fmt.Errorf("failed to persist issues: %w", err)
	}
	if err := r.upsertPullRequests(tx, snapshot.PullRequests, now); err != nil {
		return fmt.Errorf("failed to persist pull requests: %w", err)
	}
	if err := r.upsertReleases(tx, snapshot.Releases, now); err != nil {
		return fmt.Errorf("failed to persist releases: %w", err)
	}
	if err := r.upsertVersions(tx, projectID, snapshot.Versions, now); err != nil {
		return fmt.Errorf("failed to persist versions: %w", err)
	}
	if err := r.replaceDependencies(tx, projectID, snapshot.DependencySources, snapshot.Dependencies, now); err != nil {
		return fmt.Errorf("failed to persist dependencies: %w", err)
	}

	return tx.Commit()
}

func (r *ProjectSyncRepository) upsertProject(tx *sql.Tx, project *models.Project, now time.Time) error {
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT(name) DO UPDATE SET
			full_name = excluded.full_name,
			description = excluded.description,
			repository_url = excluded.repository_url,
			github_owner = excluded.github_owner,
			github_repo = excluded.github_repo,
			primary_language = excluded.primary_language,
			stars = excluded.stars,
			forks = excluded.forks,
			watchers = excluded.watchers,
			license = excluded.license,
			default_branch = excluded.default_branch,
			visibility = excluded.visibility,
			is_fork = excluded.is_fork,
			topics = excluded.topics,
			last_synced_at = excluded.last_synced_at,
			github_created_at = excluded.github_created_at,
			github_updated_at = excluded.github_updated_at,
			updated_at = excluded.updated_at
	`

	_, err := tx.Exec(query,
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

// replaceLanguages swaps the whole language breakdown. Percentages only
// make sense together, so partial updates are never correct here.
func (r *ProjectSyncRepository) replaceLanguages(tx *sql.Tx, projectID string, languages []*models.ProjectLanguage, now time.Time) error {
	if _, err := tx.Exec(`DELETE FROM project_languages WHERE project_id = $1`, projectID); err != nil {
		return err
	}

	query := `
		INSERT INTO project_languages (id, project_id, language, bytes_count, percentage, file_extensions, encoding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, lang := range languages {
		lang.CreatedAt = now
		_, err := tx.Exec(query, lang.ID, projectID, lang.Language, lang.BytesCount, lang.Percentage, lang.FileExtensions, lang.Encoding, lang.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ProjectSyncRepository) replaceContributors(tx *sql.Tx, projectID string, contributors []*models.ProjectContributor, now time.Time) error {
	if _, err := tx.Exec(`DELETE FROM project_contributors WHERE project_id = $1`, projectID); err != nil {
		return err
	}

	query := `
		INSERT INTO project_contributors (id, project_id, username, avatar_url, contributions, profile_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, contributor := range contributors {
		contributor.CreatedAt = now
		_, err := tx.Exec(query, contributor.ID, projectID, contributor.Username, contributor.AvatarURL, contributor.Contributions, contributor.ProfileURL, contributor.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ProjectSyncRepository) replaceDocuments(tx *sql.Tx, projectID string, documents []*models.ProjectDocument, now time.Time) error {
	if _, err := tx.Exec(`DELETE FROM project_documents WHERE project_id = $1`, projectID); err != nil {
		return err
	}

	query := `
		INSERT INTO project_documents (id, project_id, slug, title, content, section_type, source_file, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for position, doc := range documents {
		doc.Position = position
		doc.CreatedAt = now
		_, err := tx.Exec(query, doc.ID, projectID, doc.Slug, doc.Title, doc.Content, doc.SectionType, doc.SourceFile, doc.Position, doc.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ProjectSyncRepository) upsertBranches(tx *sql.Tx, branches []*models.ProjectBranch, now time.Time) error {
	query := `
		INSERT INTO project_branches (id, project_id, name, is_default, is_protected, commit_sha, commit_message, commit_author, commit_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT(project_id, name) DO UPDATE SET
			is_default = excluded.is_default,
			is_protected = excluded.is_protected,
			commit_sha = excluded.commit_sha,
			commit_message = excluded.commit_message,
			commit_author = excluded.commit_author,
			commit_date = excluded.commit_date,
			updated_at = excluded.updated_at
	`
	for _, branch := range branches {
		_, err := tx.Exec(query, branch.ID, branch.ProjectID, branch.Name, branch.IsDefault, branch.IsProtected,
			branch.CommitSHA, branch.CommitMessage, branch.CommitAuthor, branch.CommitDate, now, now)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ProjectSyncRepository) upsertIssues(tx *sql.Tx, issues []*models.ProjectIssue, now time.Time) error {
	query := `
		INSERT INTO project_issues (id, project_id, issue_number, title, state, author, labels, issue_created_at, issue_updated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT(project_id, issue_number) DO UPDATE SET
			title = excluded.title,
			state = excluded.state,
			author = excluded.author,
			labels = excluded.labels,
			issue_created_at = excluded.issue_created_at,
			issue_updated_at = excluded.issue_updated_at,
			updated_at = excluded.updated_at
	`
	for _, issue := range issues {
		_, err := tx.Exec(query, issue.ID, issue.ProjectID, issue.IssueNumber, issue.Title, issue.State,
			issue.Author, issue.Labels, issue.IssueCreatedAt, issue.IssueUpdatedAt, now, now)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ProjectSyncRepository) upsertPullRequests(tx *sql.Tx, prs []*models.ProjectPullRequest, now time.Time) error {
	query := `
		INSERT INTO project_pull_requests (id, project_id, pr_number, title, state, author, base_branch, head_branch,
			is_draft, is_merged, additions, deletions, labels, pr_created_at, pr_updated_at, pr_merged_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT(project_id, pr_number) DO UPDATE SET
			title = excluded.title,
			state = excluded.state,
			author = excluded.author,
			base_branch = excluded.base_branch,
			head_branch = excluded.head_branch,
			is_draft = excluded.is_draft,
			is_merged = excluded.is_merged,
			additions = excluded.additions,
			deletions = excluded.deletions,
			labels = excluded.labels,
			pr_created_at = excluded.pr_created_at,
			pr_updated_at = excluded.pr_updated_at,
			pr_merged_at = excluded.pr_merged_at,
			updated_at = excluded.updated_at
	`
	for _, pr := range prs {
		_, err := tx.Exec(query, pr.ID, pr.ProjectID, pr.PRNumber, pr.Title, pr.State, pr.Author,
			pr.BaseBranch, pr.HeadBranch, pr.IsDraft, pr.IsMerged, pr.Additions, pr.Deletions,
			pr.Labels, pr.PRCreatedAt, pr.PRUpdatedAt, pr.PRMergedAt, now, now)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ProjectSyncRepository) upsertReleases(tx *sql.Tx, releases []*models.ProjectRelease, now time.Time) error {
	query := `
		INSERT INTO project_releases (id, project_id, tag_name, name, body, is_prerelease, is_draft, author,
			target_commitish, release_created_at, release_published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT(project_id, tag_name) DO UPDATE SET
			name = excluded.name,
			body = excluded.body,
			is_prerelease = excluded.is_prerelease,
			is_draft = excluded.is_draft,
			author = excluded.author,
			target_commitish = excluded.target_commitish,
			release_created_at = excluded.release_created_at,
			release_published_at = excluded.release_published_at,
			updated_at = excluded.updated_at
	`
	for _, release := range releases {
		_, err := tx.Exec(query, release.ID, release.ProjectID, release.TagName, release.Name, release.Body,
			release.IsPrerelease, release.IsDraft, release.Author, release.TargetCommitish,
			release.ReleaseCreatedAt, release.ReleasePublishedAt, now, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// upsertVersions merges version rows. The latest flag is recomputed for
// the whole project so at most one version carries it.
func (r *ProjectSyncRepository) upsertVersions(tx *sql.Tx, projectID string, versions []*models.ProjectVersion, now time.Time) error {
	if len(versions) == 0 {
		return nil
	}

	if _, err := tx.Exec(`UPDATE project_versions SET is_latest = 0 WHERE project_id = $1`, projectID); err != nil {
		return err
	}

	query := `
		INSERT INTO project_versions (id, project_id, version, major, minor, patch, prerelease, build_metadata,
			source, is_latest, release_url, release_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT(project_id, version) DO UPDATE SET
			major = excluded.major,
			minor = excluded.minor,
			patch = excluded.patch,
			prerelease = excluded.prerelease,
			build_metadata = excluded.build_metadata,
			source = excluded.source,
			is_latest = excluded.is_latest,
			release_url = excluded.release_url,
			release_date = excluded.release_date
	`
	for _, version := range versions {
		_, err := tx.Exec(query, version.ID, projectID, version.Version, version.Major, version.Minor, version.Patch,
			version.Prerelease, version.BuildMetadata, version.Source, version.IsLatest,
			version.ReleaseURL, version.ReleaseDate, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// replaceDependencies replaces rows per fetched manifest. Manifests that
// were not fetched this pass keep their existing rows.
func (r *ProjectSyncRepository) replaceDependencies(tx *sql.Tx, projectID string, sources []string, deps []*models.ProjectDependency, now time.Time) error {
	for _, source := range sources {
		if _, err := tx.Exec(`DELETE FROM project_dependencies WHERE project_id = $1 AND source = $2`, projectID, source); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO project_dependencies (id, project_id, name, version_spec, dep_type, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT(project_id, source, name) DO UPDATE SET
			version_spec = excluded.version_spec,
			dep_type = excluded.dep_type,
			updated_at = excluded.updated_at
	`
	for _, dep := range deps {
		_, err := tx.Exec(query, dep.ID, projectID, dep.Name, dep.VersionSpec, dep.DepType, dep.Source, now, now)
		if err != nil {
			return err
		}
	}
	return nil
}
