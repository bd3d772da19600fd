package services

import (
	"database/sql"
	"fmt"

	"github.com/reposcope/reposcope/internal/models"
	"github.com/reposcope/reposcope/internal/repositories"
	"github.com/reposcope/reposcope/pkg/logger"
)

// LinkerOptions controls which cache sections feed the graph build
type LinkerOptions struct {
	IncludeBranches     bool `json:"include_branches"`
	IncludeIssues       bool `json:"include_issues"`
	IncludePullRequests bool `json:"include_pull_requests"`
	IncludeDocs         bool `json:"include_docs"`
	MaxContributors     int  `json:"max_contributors"`
}

// DefaultLinkerOptions includes everything
func DefaultLinkerOptions() LinkerOptions {
	return LinkerOptions{
		IncludeBranches:     true,
		IncludeIssues:       true,
		IncludePullRequests: true,
		IncludeDocs:         true,
	}
}

// GraphStats summarizes a graph build
type GraphStats struct {
	Projects int `json:"projects"`
	Entities int `json:"entities"`
	Links    int `json:"links"`
}

// LinkerService derives the entity/link graph from the cache tables. The
// graph is a pure projection: building it twice from the same cache state
// yields the same entities and links.
type LinkerService struct {
	projectRepo     *repositories.ProjectRepository
	languageRepo    *repositories.LanguageRepository
	branchRepo      *repositories.BranchRepository
	dependencyRepo  *repositories.DependencyRepository
	contributorRepo *repositories.ContributorRepository
	issueRepo       *repositories.IssueRepository
	prRepo          *repositories.PullRequestRepository
	versionRepo     *repositories.VersionRepository
	documentRepo    *repositories.DocumentRepository
	entityRepo      *repositories.EntityRepository
	linkRepo        *repositories.LinkRepository
}

func NewLinkerService(
	projectRepo *repositories.ProjectRepository,
	languageRepo *repositories.LanguageRepository,
	branchRepo *repositories.BranchRepository,
	dependencyRepo *repositories.DependencyRepository,
	contributorRepo *repositories.ContributorRepository,
	issueRepo *repositories.IssueRepository,
	prRepo *repositories.PullRequestRepository,
	versionRepo *repositories.VersionRepository,
	documentRepo *repositories.DocumentRepository,
	entityRepo *repositories.EntityRepository,
	linkRepo *repositories.LinkRepository,
) *LinkerService {
	return &LinkerService{
		projectRepo:     projectRepo,
		languageRepo:    languageRepo,
		branchRepo:      branchRepo,
		dependencyRepo:  dependencyRepo,
		contributorRepo: contributorRepo,
		issueRepo:       issueRepo,
		prRepo:          prRepo,
		versionRepo:     versionRepo,
		documentRepo:    documentRepo,
		entityRepo:      entityRepo,
		linkRepo:        linkRepo,
	}
}

// BuildGraph projects every cached project into the entity layer
func (s *LinkerService) BuildGraph(opts LinkerOptions) (*GraphStats, error) {
	projects, err := s.projectRepo.List(repositories.ProjectFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	for _, project := range projects {
		if err := s.buildProject(project, opts); err != nil {
			return nil, fmt.Errorf("failed to build graph for %s: %w", project.Name, err)
		}
	}

	stats := &GraphStats{Projects: len(projects)}
	if stats.Entities, err = s.entityRepo.Count(); err != nil {
		return nil, err
	}
	if stats.Links, err = s.linkRepo.Count(); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"projects": stats.Projects,
		"entities": stats.Entities,
		"links":    stats.Links,
	}).Info("Built entity graph")
	return stats, nil
}

// BuildProjectGraph projects one named project into the entity layer.
// The build merges: shared entities and other projects' slices of the
// graph are left alone.
func (s *LinkerService) BuildProjectGraph(name string, opts LinkerOptions) (*GraphStats, error) {
	project, err := s.projectRepo.GetByName(name)
	if err == sql.ErrNoRows {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.buildProject(project, opts); err != nil {
		return nil, fmt.Errorf("failed to build graph for %s: %w", project.Name, err)
	}

	stats := &GraphStats{Projects: 1}
	if stats.Entities, err = s.entityRepo.Count(); err != nil {
		return nil, err
	}
	if stats.Links, err = s.linkRepo.Count(); err != nil {
		return nil, err
	}
	return stats, nil
}

// RebuildGraph clears the entity layer and builds it fresh
func (s *LinkerService) RebuildGraph(opts LinkerOptions) (*GraphStats, error) {
	if err := s.entityRepo.DeleteAll(); err != nil {
		return nil, fmt.Errorf("failed to clear entity layer: %w", err)
	}
	return s.BuildGraph(opts)
}

func (s *LinkerService) buildProject(project *models.Project, opts LinkerOptions) error {
	projectEntity := models.NewEntity(project.Name, models.ScopeRepo, "project")
	projectEntity.DisplayName = project.FullName
	projectEntity.Description = project.Description
	projectEntity.URL = project.RepositoryURL
	if err := s.entityRepo.Upsert(projectEntity); err != nil {
		return err
	}

	if err := s.linkLanguages(project, projectEntity); err != nil {
		return err
	}
	if err := s.linkDependencies(project, projectEntity); err != nil {
		return err
	}
	if err := s.linkContributors(project, projectEntity, opts.MaxContributors); err != nil {
		return err
	}

	// Repo-scoped entities need GitHub coordinates for their names
	owner, repo, ok := project.OwnerRepo()
	if !ok {
		return nil
	}

	if opts.IncludeBranches {
		if err := s.linkBranches(project, projectEntity, owner, repo); err != nil {
			return err
		}
	}
	if opts.IncludeIssues {
		if err := s.linkIssues(project, projectEntity, owner, repo); err != nil {
			return err
		}
	}
	if opts.IncludePullRequests {
		if err := s.linkPullRequests(project, projectEntity, owner, repo); err != nil {
			return err
		}
	}
	if err := s.linkVersions(project, projectEntity, owner, repo); err != nil {
		return err
	}
	if opts.IncludeDocs {
		if err := s.linkDocuments(project, projectEntity, owner, repo); err != nil {
			return err
		}
	}
	return nil
}

func (s *LinkerService) linkLanguages(project *models.Project, source *models.Entity) error {
	languages, err := s.languageRepo.GetByProjectID(project.ID)
	if err != nil {
		return err
	}
	for position, lang := range languages {
		entity := models.NewEntity(models.LanguageEntityName(lang.Language), models.ScopeGlobal, "language")
		display := lang.Language
		entity.DisplayName = &display
		if err := s.upsertLinked(source, entity, models.LinkTypeLanguage, position); err != nil {
			return err
		}
	}
	return nil
}

func (s *LinkerService) linkDependencies(project *models.Project, source *models.Entity) error {
	deps, err := s.dependencyRepo.GetByProjectID(project.ID)
	if err != nil {
		return err
	}
	for position, dep := range deps {
		entity := models.NewEntity(models.PackageEntityName(dep.Name), models.ScopeGlobal, "package")
		display := dep.Name
		entity.DisplayName = &display
		if err := s.upsertLinked(source, entity, models.LinkTypeDependency, position); err != nil {
			return err
		}
	}
	return nil
}

func (s *LinkerService) linkContributors(project *models.Project, source *models.Entity, max int) error {
	contributors, err := s.contributorRepo.GetByProjectID(project.ID)
	if err != nil {
		return err
	}
	if max > 0 && len(contributors) > max {
		contributors = contributors[:max]
	}
	for position, contributor := range contributors {
		entity := models.NewEntity(models.UserEntityName(contributor.Username), models.ScopeApp, "user")
		display := contributor.Username
		entity.DisplayName = &display
		entity.URL = contributor.ProfileURL
		if err := s.upsertLinked(source, entity, models.LinkTypeContributor, position); err != nil {
			return err
		}
	}
	return nil
}

func (s *LinkerService) linkBranches(project *models.Project, source *models.Entity, owner, repo string) error {
	branches, err := s.branchRepo.GetByProjectID(project.ID)
	if err != nil {
		return err
	}
	for position, branch := range branches {
		entity := models.NewEntity(models.BranchEntityName(owner, repo, branch.Name), models.ScopeRepo, "branch")
		display := branch.Name
		entity.DisplayName = &display
		if err := s.upsertLinked(source, entity, models.LinkTypeBranch, position); err != nil {
			return err
		}
	}
	return nil
}

func (s *LinkerService) linkIssues(project *models.Project, source *models.Entity, owner, repo string) error {
	issues, err := s.issueRepo.GetByProjectID(project.ID, "")
	if err != nil {
		return err
	}
	for position, issue := range issues {
		entity := models.NewEntity(models.IssueEntityName(owner, repo, issue.IssueNumber), models.ScopeRepo, "issue")
		display := issue.Title
		entity.DisplayName = &display
		if err := s.upsertLinked(source, entity, models.LinkTypeIssue, position); err != nil {
			return err
		}
	}
	return nil
}

func (s *LinkerService) linkPullRequests(project *models.Project, source *models.Entity, owner, repo string) error {
	prs, err := s.prRepo.GetByProjectID(project.ID, "")
	if err != nil {
		return err
	}
	for position, pr := range prs {
		entity := models.NewEntity(models.PREntityName(owner, repo, pr.PRNumber), models.ScopeRepo, "pr")
		display := pr.Title
		entity.DisplayName = &display
		if err := s.upsertLinked(source, entity, models.LinkTypePR, position); err != nil {
			return err
		}
	}
	return nil
}

func (s *LinkerService) linkVersions(project *models.Project, source *models.Entity, owner, repo string) error {
	versions, err := s.versionRepo.GetByProjectID(project.ID)
	if err != nil {
		return err
	}
	for position, version := range versions {
		entity := models.NewEntity(models.VersionEntityName(owner, repo, version.Version), models.ScopeRepo, "version")
		display := version.Version
		entity.DisplayName = &display
		entity.URL = version.ReleaseURL
		if err := s.upsertLinked(source, entity, models.LinkTypeVersion, position); err != nil {
			return err
		}
	}
	return nil
}

func (s *LinkerService) linkDocuments(project *models.Project, source *models.Entity, owner, repo string) error {
	documents, err := s.documentRepo.GetByProjectID(project.ID)
	if err != nil {
		return err
	}
	for position, doc := range documents {
		entity := models.NewEntity(models.DocEntityName(owner, repo, doc.Slug), models.ScopeRepo, "doc")
		display := doc.Title
		entity.DisplayName = &display
		if err := s.upsertLinked(source, entity, models.LinkTypeDoc, position); err != nil {
			return err
		}
	}
	return nil
}

func (s *LinkerService) upsertLinked(source, target *models.Entity, linkType string, position int) error {
	if err := s.entityRepo.Upsert(target); err != nil {
		return err
	}
	return s.linkRepo.Upsert(models.NewLink(source.ID, target.ID, linkType, position))
}
