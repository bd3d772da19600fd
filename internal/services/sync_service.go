package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v57/github"

	"github.com/reposcope/reposcope/internal/github"
	"github.com/reposcope/reposcope/internal/manifest"
	"github.com/reposcope/reposcope/internal/markdown"
	"github.com/reposcope/reposcope/internal/models"
	"github.com/reposcope/reposcope/internal/repositories"
	"github.com/reposcope/reposcope/pkg/config"
	"github.com/reposcope/reposcope/pkg/logger"
)

// RepoListing walks a paginated repository listing
type RepoListing interface {
	Next(ctx context.Context) bool
	Repo() *gogithub.Repository
	Err() error
}

// RepoFetcher is the GitHub surface the sync engine needs. The real
// implementation wraps the API client; tests substitute fakes.
type RepoFetcher interface {
	GetRepository(ctx context.Context, owner, repo string) (*gogithub.Repository, error)
	GetReadme(ctx context.Context, owner, repo string) (*string, error)
	GetFileContent(ctx context.Context, owner, repo, path string) (*string, error)
	ListLanguages(ctx context.Context, owner, repo string) (map[string]int, error)
	ListBranches(ctx context.Context, owner, repo string, max int) ([]github.RawBranch, error)
	ListContributors(ctx context.Context, owner, repo string, max int) ([]*gogithub.Contributor, error)
	ListIssues(ctx context.Context, owner, repo string, max int) ([]*gogithub.Issue, error)
	ListPullRequests(ctx context.Context, owner, repo string, max int) ([]*gogithub.PullRequest, error)
	ListReleases(ctx context.Context, owner, repo string, max int) ([]*gogithub.RepositoryRelease, error)
	SearchRepositories(ctx context.Context, query string, limit int) ([]*gogithub.Repository, error)
	UserRepos(username string, perPage int) RepoListing
	OrgRepos(org string, perPage int) RepoListing
	Tracker() *github.RateLimitTracker
}

// githubFetcher adapts the concrete client to RepoFetcher
type githubFetcher struct {
	*github.Client
}

func (f githubFetcher) UserRepos(username string, perPage int) RepoListing {
	return f.Client.ListUserRepos(username, perPage)
}

func (f githubFetcher) OrgRepos(org string, perPage int) RepoListing {
	return f.Client.ListOrgRepos(org, perPage)
}

// NewGitHubFetcher wraps the API client as a RepoFetcher
func NewGitHubFetcher(client *github.Client) RepoFetcher {
	return githubFetcher{Client: client}
}

// SyncService drives the cache-merge sync: fetch remote state, map it to
// cache rows, persist each repository's snapshot in one transaction.
type SyncService struct {
	fetcher       RepoFetcher
	projectRepo   *repositories.ProjectRepository
	syncRepo      *repositories.ProjectSyncRepository
	componentRepo *repositories.ComponentRepository
	sync          config.SyncConfig
}

func NewSyncService(
	fetcher RepoFetcher,
	projectRepo *repositories.ProjectRepository,
	syncRepo *repositories.ProjectSyncRepository,
	componentRepo *repositories.ComponentRepository,
	sync config.SyncConfig,
) *SyncService {
	return &SyncService{
		fetcher:       fetcher,
		projectRepo:   projectRepo,
		syncRepo:      syncRepo,
		componentRepo: componentRepo,
		sync:          sync,
	}
}

// SyncRepository syncs one repository end to end. The returned result
// always describes the outcome; the error is non-nil only for failures
// and is the typed cause (rate limiting in particular must stay visible
// to batch callers).
func (s *SyncService) SyncRepository(ctx context.Context, ownerRepo string, opts models.SyncOptions) (*models.SyncResult, error) {
	owner, repo, err := models.ParseOwnerRepo(ownerRepo)
	if err != nil {
		verr := &github.ValidationError{Message: err.Error()}
		return &models.SyncResult{Name: ownerRepo, Status: models.SyncStatusFailed, Error: verr.Error()}, verr
	}
	name := owner + "/" + repo

	project, err := s.projectRepo.GetByName(name)
	if err != nil && err != sql.ErrNoRows {
		return &models.SyncResult{Name: name, Status: models.SyncStatusFailed, Error: err.Error()}, err
	}

	if project != nil && !opts.Force && project.SyncedRecently(s.freshnessWindow(), time.Now().UTC()) {
		logger.WithField("project", name).Debug("Skipping recently synced project")
		return &models.SyncResult{Name: name, Status: models.SyncStatusSkipped}, nil
	}

	if project == nil {
		project = models.NewProject(name)
	}
	project.GithubOwner = &owner
	project.GithubRepo = &repo

	snapshot, err := s.buildSnapshot(ctx, project, owner, repo, opts)
	if err != nil {
		logger.WithError(err).WithField("project", name).Error("Failed to fetch repository")
		return &models.SyncResult{Name: name, Status: models.SyncStatusFailed, Error: err.Error()}, err
	}

	now := time.Now().UTC()
	snapshot.Project.LastSyncedAt = &now
	if err := s.syncRepo.PersistSync(snapshot); err != nil {
		logger.WithError(err).WithField("project", name).Error("Failed to persist repository snapshot")
		return &models.SyncResult{Name: name, Status: models.SyncStatusFailed, Error: err.Error()}, err
	}

	logger.WithField("project", name).Info("Synced project")
	return &models.SyncResult{Name: name, Status: models.SyncStatusSynced}, nil
}

// buildSnapshot fetches everything a sync pass needs. Repository metadata
// is required; every other fetch is optional and tolerated when the
// resource is missing or the call fails, except rate limiting, which
// aborts the whole repository.
func (s *SyncService) buildSnapshot(ctx context.Context, project *models.Project, owner, repo string, opts models.SyncOptions) (*models.SyncSnapshot, error) {
	remote, err := s.fetcher.GetRepository(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	github.ApplyRepository(project, remote)

	snapshot := &models.SyncSnapshot{Project: project}

	byteCounts, err := s.fetcher.ListLanguages(ctx, owner, repo)
	if err := s.tolerate(err, project.Name, "languages"); err != nil {
		return nil, err
	} else if byteCounts != nil {
		snapshot.Languages = github.ToLanguages(project.ID, byteCounts)
		snapshot.LanguagesFetched = true
	}

	branches, err := s.fetcher.ListBranches(ctx, owner, repo, s.maxOr(opts.MaxBranches, s.sync.MaxBranches))
	if err := s.tolerate(err, project.Name, "branches"); err != nil {
		return nil, err
	} else if branches != nil {
		snapshot.Branches = github.ToBranches(project.ID, branches, remote.GetDefaultBranch())
	}

	contributors, err := s.fetcher.ListContributors(ctx, owner, repo, s.maxOr(opts.MaxContributors, s.sync.MaxContributors))
	if err := s.tolerate(err, project.Name, "contributors"); err != nil {
		return nil, err
	} else if contributors != nil {
		snapshot.Contributors = github.ToContributors(project.ID, contributors)
		snapshot.ContributorsFetched = true
	}

	issues, err := s.fetcher.ListIssues(ctx, owner, repo, s.maxOr(opts.MaxIssues, s.sync.MaxIssues))
	if err := s.tolerate(err, project.Name, "issues"); err != nil {
		return nil, err
	} else if issues != nil {
		snapshot.Issues = github.ToIssues(project.ID, issues)
	}

	prs, err := s.fetcher.ListPullRequests(ctx, owner, repo, s.maxOr(opts.MaxPullRequests, s.sync.MaxPullRequests))
	if err := s.tolerate(err, project.Name, "pull requests"); err != nil {
		return nil, err
	} else if prs != nil {
		snapshot.PullRequests = github.ToPullRequests(project.ID, prs)
	}

	releases, err := s.fetcher.ListReleases(ctx, owner, repo, s.maxOr(opts.MaxReleases, s.sync.MaxReleases))
	if err := s.tolerate(err, project.Name, "releases"); err != nil {
		return nil, err
	} else if releases != nil {
		snapshot.Releases = github.ToReleases(project.ID, releases)
		snapshot.Versions = github.ToVersions(project.ID, releases)
	}

	readme, err := s.fetcher.GetReadme(ctx, owner, repo)
	if err := s.tolerate(err, project.Name, "readme"); err != nil {
		return nil, err
	}
	if readme != nil {
		snapshot.Documents = toDocuments(project.ID, *readme)
	}
	// A missing README is "fetched and empty": stale sections get wiped
	snapshot.DocumentsFetched = err == nil || github.IsNotFound(err)

	for _, mf := range manifest.SupportedManifests {
		content, err := s.fetcher.GetFileContent(ctx, owner, repo, mf.Filename)
		if err := s.tolerate(err, project.Name, mf.Filename); err != nil {
			return nil, err
		}
		if content == nil {
			continue
		}
		deps, err := mf.Parse(project.ID, *content)
		if err != nil {
			logger.WithError(err).WithFields(map[string]interface{}{
				"project":  project.Name,
				"manifest": mf.Filename,
			}).Warn("Skipping unparsable manifest")
			continue
		}
		snapshot.Dependencies = append(snapshot.Dependencies, deps...)
		snapshot.DependencySources = append(snapshot.DependencySources, mf.Filename)
	}

	return snapshot, nil
}

// tolerate decides whether an optional sub-fetch error aborts the sync.
// Missing resources and transient hiccups degrade to a warning; rate
// limiting and auth failures abort.
func (s *SyncService) tolerate(err error, project, resource string) error {
	if err == nil || github.IsNotFound(err) {
		return nil
	}
	if github.IsRateLimited(err) {
		return err
	}
	var authErr *github.AuthError
	if errors.As(err, &authErr) {
		return err
	}
	logger.WithError(err).WithFields(map[string]interface{}{
		"project":  project,
		"resource": resource,
	}).Warn("Skipping unavailable resource")
	return nil
}

// SyncBatch syncs a list of repositories sequentially with a politeness
// delay between batches. The run halts early when the call budget runs
// out or the context is cancelled; the summary covers what was processed.
func (s *SyncService) SyncBatch(ctx context.Context, ownerRepos []string, opts models.SyncOptions) *models.BatchSummary {
	summary := &models.BatchSummary{}
	batchSize := s.maxOr(opts.BatchSize, s.sync.BatchSize)
	if batchSize < 1 {
		batchSize = 1
	}
	delay := time.Duration(s.maxOr(opts.BatchDelaySeconds, s.sync.BatchDelaySeconds)) * time.Second

	for i, ownerRepo := range ownerRepos {
		if ctx.Err() != nil {
			break
		}
		if s.fetcher.Tracker().IsExhausted() {
			summary.RateLimited = true
			break
		}

		result, err := s.SyncRepository(ctx, ownerRepo, opts)
		summary.Add(result)
		if err != nil && github.IsRateLimited(err) {
			summary.RateLimited = true
			break
		}

		endOfBatch := (i+1)%batchSize == 0
		if endOfBatch && i+1 < len(ownerRepos) && delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
		}
	}

	logger.WithFields(map[string]interface{}{
		"synced":  summary.Synced,
		"failed":  summary.Failed,
		"skipped": summary.Skipped,
	}).Info("Batch sync finished")
	return summary
}

// SyncUser syncs the repositories owned by a user
func (s *SyncService) SyncUser(ctx context.Context, username string, opts models.SyncOptions) (*models.BatchSummary, error) {
	return s.syncListing(ctx, s.fetcher.UserRepos(username, 0), opts)
}

// SyncOrg syncs the repositories of an organization
func (s *SyncService) SyncOrg(ctx context.Context, org string, opts models.SyncOptions) (*models.BatchSummary, error) {
	return s.syncListing(ctx, s.fetcher.OrgRepos(org, 0), opts)
}

// syncListing walks a repository listing lazily, applies the option
// filters, and batch-syncs what passes. The parent option attaches every
// synced repository as a component of the named project.
func (s *SyncService) syncListing(ctx context.Context, listing RepoListing, opts models.SyncOptions) (*models.BatchSummary, error) {
	var names []string
	for listing.Next(ctx) {
		remote := listing.Repo()
		if opts.SkipForks && remote.GetFork() {
			continue
		}
		if opts.Language != "" && !strings.EqualFold(remote.GetLanguage(), opts.Language) {
			continue
		}
		names = append(names, remote.GetFullName())
		if opts.Limit > 0 && len(names) >= opts.Limit {
			break
		}
	}
	if err := listing.Err(); err != nil {
		return nil, err
	}

	summary := s.SyncBatch(ctx, names, opts)

	if opts.Parent != "" {
		if err := s.attachComponents(opts.Parent, names); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// attachComponents links synced projects under a parent project, creating
// the parent as a plain cached project when it does not exist yet
func (s *SyncService) attachComponents(parentName string, childNames []string) error {
	parent, err := s.projectRepo.GetByName(parentName)
	if err == sql.ErrNoRows {
		parent = models.NewProject(parentName)
		if err := s.projectRepo.Create(parent); err != nil {
			return fmt.Errorf("failed to create parent project: %w", err)
		}
	} else if err != nil {
		return err
	}

	for position, childName := range childNames {
		child, err := s.projectRepo.GetByName(childName)
		if err == sql.ErrNoRows {
			// Child failed to sync, nothing to attach
			continue
		}
		if err != nil {
			return err
		}
		component, err := models.NewProjectComponent(parent.ID, child.ID, "component")
		if err != nil {
			continue
		}
		component.Position = position
		if err := s.componentRepo.Create(component); err != nil {
			return err
		}
	}
	return nil
}

// RepoSummary is a repository search hit, trimmed for display. Search
// results are not cached; syncing a hit is a separate, explicit step.
type RepoSummary struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Language    *string `json:"language,omitempty"`
	Stars       int     `json:"stars"`
	Forks       int     `json:"forks"`
	IsFork      bool    `json:"is_fork"`
	URL         string  `json:"url"`
}

const defaultSearchLimit = 30

// Search runs a repository search for candidates to sync
func (s *SyncService) Search(ctx context.Context, query string, limit int) ([]RepoSummary, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &github.ValidationError{Message: "search query is required"}
	}
	if limit <= 0 || limit > 100 {
		limit = defaultSearchLimit
	}

	repos, err := s.fetcher.SearchRepositories(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]RepoSummary, 0, len(repos))
	for _, repo := range repos {
		summaries = append(summaries, RepoSummary{
			Name:        repo.GetFullName(),
			Description: repo.Description,
			Language:    repo.Language,
			Stars:       repo.GetStargazersCount(),
			Forks:       repo.GetForksCount(),
			IsFork:      repo.GetFork(),
			URL:         repo.GetHTMLURL(),
		})
	}
	return summaries, nil
}

// RateLimit exposes the current call budget
func (s *SyncService) RateLimit() github.RateLimitStatus {
	return s.fetcher.Tracker().Status()
}

func (s *SyncService) freshnessWindow() time.Duration {
	hours := s.sync.FreshnessHours
	if hours <= 0 {
		hours = 1
	}
	return time.Duration(hours) * time.Hour
}

func (s *SyncService) maxOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

// toDocuments splits README content into ordered document rows
func toDocuments(projectID, content string) []*models.ProjectDocument {
	sections := markdown.SplitSections(content)
	documents := make([]*models.ProjectDocument, 0, len(sections))
	source := "README.md"
	for position, section := range sections {
		doc := models.NewProjectDocument(projectID, section.Slug, section.Title, section.Content)
		doc.SourceFile = &source
		doc.Position = position
		documents = append(documents, doc)
	}
	return documents
}
