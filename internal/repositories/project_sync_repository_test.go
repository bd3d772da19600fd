package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/internal/models"
)

func fullSnapshot() *models.SyncSnapshot {
	project := models.NewProject("acme/widget")
	project.GithubOwner = strPtr("acme")
	project.GithubRepo = strPtr("widget")
	project.Stars = 42

	lang := models.NewProjectLanguage(project.ID, "Go", 9000, 90.0)
	lang2 := models.NewProjectLanguage(project.ID, "Shell", 1000, 10.0)

	branch := models.NewProjectBranch(project.ID, "main")
	branch.IsDefault = true

	contributor := models.NewProjectContributor(project.ID, "alice", 50)

	issue := models.NewProjectIssue(project.ID, 7, "widget crashes")
	issue.State = "open"

	pr := models.NewProjectPullRequest(project.ID, 12, "fix crash")
	pr.State = "open"

	release := models.NewProjectRelease(project.ID, "v1.0.0")
	release.IsDraft = false

	version := models.NewProjectVersion(project.ID, "1.0.0", "release")
	version.IsLatest = true

	doc := models.NewProjectDocument(project.ID, "overview", "Overview", "A widget.")
	doc.SourceFile = strPtr("README.md")

	dep := models.NewProjectDependency(project.ID, "requests", models.DepTypeRuntime, "pyproject.toml")

	return &models.SyncSnapshot{
		Project:             project,
		Languages:           []*models.ProjectLanguage{lang, lang2},
		LanguagesFetched:    true,
		Branches:            []*models.ProjectBranch{branch},
		Contributors:        []*models.ProjectContributor{contributor},
		ContributorsFetched: true,
		Issues:              []*models.ProjectIssue{issue},
		PullRequests:        []*models.ProjectPullRequest{pr},
		Releases:            []*models.ProjectRelease{release},
		Versions:            []*models.ProjectVersion{version},
		Documents:           []*models.ProjectDocument{doc},
		DocumentsFetched:    true,
		Dependencies:        []*models.ProjectDependency{dep},
		DependencySources:   []string{"pyproject.toml"},
	}
}

func strPtr(s string) *string { return &s }

func countRows(t *testing.T, repo *ProjectSyncRepository, table, projectID string) int {
	t.Helper()
	var count int
	err := repo.db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE project_id = $1", projectID).Scan(&count)
	require.NoError(t, err)
	return count
}

func TestPersistSyncFullSnapshot(t *testing.T) {
	db := newTestDB(t)
	syncRepo := NewProjectSyncRepository(db)
	projectRepo := NewProjectRepository(db)

	snapshot := fullSnapshot()
	require.NoError(t, syncRepo.PersistSync(snapshot))

	got, err := projectRepo.GetByName("acme/widget")
	require.NoError(t, err)
	assert.Equal(t, 42, got.Stars)

	projectID := snapshot.Project.ID
	assert.Equal(t, 2, countRows(t, syncRepo, "project_languages", projectID))
	assert.Equal(t, 1, countRows(t, syncRepo, "project_branches", projectID))
	assert.Equal(t, 1, countRows(t, syncRepo, "project_contributors", projectID))
	assert.Equal(t, 1, countRows(t, syncRepo, "project_issues", projectID))
	assert.Equal(t, 1, countRows(t, syncRepo, "project_pull_requests", projectID))
	assert.Equal(t, 1, countRows(t, syncRepo, "project_releases", projectID))
	assert.Equal(t, 1, countRows(t, syncRepo, "project_versions", projectID))
	assert.Equal(t, 1, countRows(t, syncRepo, "project_documents", projectID))
	assert.Equal(t, 1, countRows(t, syncRepo, "project_dependencies", projectID))
}

func TestPersistSyncIdempotent(t *testing.T) {
	db := newTestDB(t)
	syncRepo := NewProjectSyncRepository(db)
	projectRepo := NewProjectRepository(db)

	first := fullSnapshot()
	require.NoError(t, syncRepo.PersistSync(first))
	firstID := first.Project.ID

	// A second pass builds a fresh snapshot with new row IDs, the way a
	// real re-sync does. Natural keys must keep row counts stable.
	second := fullSnapshot()
	second.Project.Stars = 100
	second.Issues[0].State = "closed"
	require.NoError(t, syncRepo.PersistSync(second))

	got, err := projectRepo.GetByName("acme/widget")
	require.NoError(t, err)
	assert.Equal(t, firstID, got.ID, "project row identity survives re-sync")
	assert.Equal(t, 100, got.Stars)

	assert.Equal(t, 2, countRows(t, syncRepo, "project_languages", firstID))
	assert.Equal(t, 1, countRows(t, syncRepo, "project_branches", firstID))
	assert.Equal(t, 1, countRows(t, syncRepo, "project_issues", firstID))
	assert.Equal(t, 1, countRows(t, syncRepo, "project_pull_requests", firstID))
	assert.Equal(t, 1, countRows(t, syncRepo, "project_releases", firstID))
	assert.Equal(t, 1, countRows(t, syncRepo, "project_versions", firstID))
	assert.Equal(t, 1, countRows(t, syncRepo, "project_dependencies", firstID))

	issues, err := NewIssueRepository(db).GetByProjectID(firstID, "")
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "closed", issues[0].State)
}

func TestPersistSyncSnapshotReplacement(t *testing.T) {
	db := newTestDB(t)
	syncRepo := NewProjectSyncRepository(db)

	first := fullSnapshot()
	require.NoError(t, syncRepo.PersistSync(first))
	projectID := first.Project.ID

	t.Run("Fetched sections replace wholesale", func(t *testing.T) {
		second := fullSnapshot()
		second.Languages = []*models.ProjectLanguage{
			models.NewProjectLanguage(projectID, "Rust", 5000, 100.0),
		}
		second.Contributors = nil
		second.ContributorsFetched = true
		require.NoError(t, syncRepo.PersistSync(second))

		langs, err := NewLanguageRepository(db).GetByProjectID(projectID)
		require.NoError(t, err)
		require.Len(t, langs, 1)
		assert.Equal(t, "Rust", langs[0].Language)

		assert.Equal(t, 0, countRows(t, syncRepo, "project_contributors", projectID))
	})

	t.Run("Unfetched sections keep stale rows", func(t *testing.T) {
		third := fullSnapshot()
		third.Languages = nil
		third.LanguagesFetched = false
		third.Documents = nil
		third.DocumentsFetched = false
		require.NoError(t, syncRepo.PersistSync(third))

		assert.Equal(t, 1, countRows(t, syncRepo, "project_languages", projectID))
		assert.Equal(t, 1, countRows(t, syncRepo, "project_documents", projectID))
	})

	t.Run("Fetched and empty wipes documents", func(t *testing.T) {
		fourth := fullSnapshot()
		fourth.Documents = nil
		fourth.DocumentsFetched = true
		require.NoError(t, syncRepo.PersistSync(fourth))

		assert.Equal(t, 0, countRows(t, syncRepo, "project_documents", projectID))
	})
}

func TestPersistSyncDependenciesPerSource(t *testing.T) {
	db := newTestDB(t)
	syncRepo := NewProjectSyncRepository(db)

	first := fullSnapshot()
	first.Dependencies = []*models.ProjectDependency{
		models.NewProjectDependency(first.Project.ID, "requests", models.DepTypeRuntime, "pyproject.toml"),
		models.NewProjectDependency(first.Project.ID, "lodash", models.DepTypeRuntime, "package.json"),
	}
	first.DependencySources = []string{"pyproject.toml", "package.json"}
	require.NoError(t, syncRepo.PersistSync(first))
	projectID := first.Project.ID

	// Re-sync fetched only pyproject.toml; package.json rows must survive.
	second := fullSnapshot()
	second.Dependencies = []*models.ProjectDependency{
		models.NewProjectDependency(projectID, "httpx", models.DepTypeRuntime, "pyproject.toml"),
	}
	second.DependencySources = []string{"pyproject.toml"}
	require.NoError(t, syncRepo.PersistSync(second))

	deps, err := NewDependencyRepository(db).GetByProjectID(projectID)
	require.NoError(t, err)
	require.Len(t, deps, 2)

	names := map[string]string{}
	for _, dep := range deps {
		names[dep.Name] = dep.Source
	}
	assert.Contains(t, names, "httpx")
	assert.Contains(t, names, "lodash")
	assert.NotContains(t, names, "requests")
}

func TestPersistSyncVersionsLatestFlag(t *testing.T) {
	db := newTestDB(t)
	syncRepo := NewProjectSyncRepository(db)
	versionRepo := NewVersionRepository(db)

	first := fullSnapshot()
	require.NoError(t, syncRepo.PersistSync(first))
	projectID := first.Project.ID

	second := fullSnapshot()
	older := models.NewProjectVersion(projectID, "1.0.0", "release")
	newer := models.NewProjectVersion(projectID, "2.0.0", "release")
	newer.IsLatest = true
	second.Versions = []*models.ProjectVersion{older, newer}
	require.NoError(t, syncRepo.PersistSync(second))

	versions, err := versionRepo.GetByProjectID(projectID)
	require.NoError(t, err)
	require.Len(t, versions, 2)

	latest := 0
	for _, v := range versions {
		if v.IsLatest {
			latest++
			assert.Equal(t, "2.0.0", v.Version)
		}
	}
	assert.Equal(t, 1, latest)

	t.Run("Empty version list keeps previous latest", func(t *testing.T) {
		third := fullSnapshot()
		third.Versions = nil
		require.NoError(t, syncRepo.PersistSync(third))

		got, err := versionRepo.GetLatest(projectID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "2.0.0", got.Version)
	})
}

func TestDeleteProjectCascades(t *testing.T) {
	db := newTestDB(t)
	syncRepo := NewProjectSyncRepository(db)
	projectRepo := NewProjectRepository(db)

	snapshot := fullSnapshot()
	require.NoError(t, syncRepo.PersistSync(snapshot))
	projectID := snapshot.Project.ID

	require.NoError(t, projectRepo.Delete(projectID))

	for _, table := range []string{
		"project_languages", "project_branches", "project_contributors",
		"project_issues", "project_pull_requests", "project_releases",
		"project_versions", "project_documents", "project_dependencies",
	} {
		assert.Equal(t, 0, countRows(t, syncRepo, table, projectID), table)
	}
}

func TestPersistSyncSetsTimestamps(t *testing.T) {
	db := newTestDB(t)
	syncRepo := NewProjectSyncRepository(db)
	projectRepo := NewProjectRepository(db)

	snapshot := fullSnapshot()
	syncedAt := time.Now().UTC()
	snapshot.Project.LastSyncedAt = &syncedAt
	require.NoError(t, syncRepo.PersistSync(snapshot))

	got, err := projectRepo.GetByName("acme/widget")
	require.NoError(t, err)
	require.NotNil(t, got.LastSyncedAt)
	assert.WithinDuration(t, syncedAt, *got.LastSyncedAt, time.Second)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}
