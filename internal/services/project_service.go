package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/reposcope/reposcope/internal/models"
	"github.com/reposcope/reposcope/internal/repositories"
)

// ErrProjectNotFound is returned when a lookup misses
var ErrProjectNotFound = errors.New("project not found")

// ProjectDetail is a project with every cached section attached
type ProjectDetail struct {
	Project      *models.Project              `json:"project"`
	Languages    []*models.ProjectLanguage    `json:"languages"`
	Branches     []*models.ProjectBranch      `json:"branches"`
	Dependencies []*models.ProjectDependency  `json:"dependencies"`
	Contributors []*models.ProjectContributor `json:"contributors"`
	Issues       []*models.ProjectIssue       `json:"issues"`
	PullRequests []*models.ProjectPullRequest `json:"pull_requests"`
	Releases     []*models.ProjectRelease     `json:"releases"`
	Versions     []*models.ProjectVersion     `json:"versions"`
	Documents    []*models.ProjectDocument    `json:"documents"`
}

// ProjectService serves reads over the cache and manages the manual
// parts of the model: project lifecycle and component edges.
type ProjectService struct {
	projectRepo     *repositories.ProjectRepository
	languageRepo    *repositories.LanguageRepository
	branchRepo      *repositories.BranchRepository
	dependencyRepo  *repositories.DependencyRepository
	contributorRepo *repositories.ContributorRepository
	issueRepo       *repositories.IssueRepository
	prRepo          *repositories.PullRequestRepository
	releaseRepo     *repositories.ReleaseRepository
	versionRepo     *repositories.VersionRepository
	documentRepo    *repositories.DocumentRepository
	componentRepo   *repositories.ComponentRepository
}

func NewProjectService(
	projectRepo *repositories.ProjectRepository,
	languageRepo *repositories.LanguageRepository,
	branchRepo *repositories.BranchRepository,
	dependencyRepo *repositories.DependencyRepository,
	contributorRepo *repositories.ContributorRepository,
	issueRepo *repositories.IssueRepository,
	prRepo *repositories.PullRequestRepository,
	releaseRepo *repositories.ReleaseRepository,
	versionRepo *repositories.VersionRepository,
	documentRepo *repositories.DocumentRepository,
	componentRepo *repositories.ComponentRepository,
) *ProjectService {
	return &ProjectService{
		projectRepo:     projectRepo,
		languageRepo:    languageRepo,
		branchRepo:      branchRepo,
		dependencyRepo:  dependencyRepo,
		contributorRepo: contributorRepo,
		issueRepo:       issueRepo,
		prRepo:          prRepo,
		releaseRepo:     releaseRepo,
		versionRepo:     versionRepo,
		documentRepo:    documentRepo,
		componentRepo:   componentRepo,
	}
}

// Count returns the number of cached projects
func (s *ProjectService) Count() (int, error) {
	return s.projectRepo.Count()
}

// List retrieves projects matching the filter
func (s *ProjectService) List(filter repositories.ProjectFilter) ([]*models.Project, error) {
	return s.projectRepo.List(filter)
}

// GetByName retrieves one project by natural key
func (s *ProjectService) GetByName(name string) (*models.Project, error) {
	project, err := s.projectRepo.GetByName(name)
	if err == sql.ErrNoRows {
		return nil, ErrProjectNotFound
	}
	return project, err
}

// GetDetail retrieves a project with all its cached sections
func (s *ProjectService) GetDetail(name string) (*ProjectDetail, error) {
	project, err := s.GetByName(name)
	if err != nil {
		return nil, err
	}

	detail := &ProjectDetail{Project: project}
	if detail.Languages, err = s.languageRepo.GetByProjectID(project.ID); err != nil {
		return nil, err
	}
	if detail.Branches, err = s.branchRepo.GetByProjectID(project.ID); err != nil {
		return nil, err
	}
	if detail.Dependencies, err = s.dependencyRepo.GetByProjectID(project.ID); err != nil {
		return nil, err
	}
	if detail.Contributors, err = s.contributorRepo.GetByProjectID(project.ID); err != nil {
		return nil, err
	}
	if detail.Issues, err = s.issueRepo.GetByProjectID(project.ID, ""); err != nil {
		return nil, err
	}
	if detail.PullRequests, err = s.prRepo.GetByProjectID(project.ID, ""); err != nil {
		return nil, err
	}
	if detail.Releases, err = s.releaseRepo.GetByProjectID(project.ID); err != nil {
		return nil, err
	}
	if detail.Versions, err = s.versionRepo.GetByProjectID(project.ID); err != nil {
		return nil, err
	}
	if detail.Documents, err = s.documentRepo.GetByProjectID(project.ID); err != nil {
		return nil, err
	}
	return detail, nil
}

// Create adds a project without syncing it. Duplicate names are rejected.
func (s *ProjectService) Create(name, description string) (*models.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	if _, err := s.projectRepo.GetByName(name); err == nil {
		return nil, fmt.Errorf("project %q already exists", name)
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	project := models.NewProject(name)
	if description != "" {
		project.Description = &description
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project and everything cached under it
func (s *ProjectService) Delete(name string) error {
	project, err := s.GetByName(name)
	if err != nil {
		return err
	}
	return s.projectRepo.Delete(project.ID)
}

// AddComponent attaches child under parent. Both projects must exist.
func (s *ProjectService) AddComponent(parentName, childName, relationshipType string) error {
	parent, err := s.GetByName(parentName)
	if err != nil {
		return err
	}
	child, err := s.GetByName(childName)
	if err != nil {
		return err
	}

	component, err := models.NewProjectComponent(parent.ID, child.ID, relationshipType)
	if err != nil {
		return err
	}
	return s.componentRepo.Create(component)
}

// RemoveComponent detaches child from parent
func (s *ProjectService) RemoveComponent(parentName, childName, relationshipType string) error {
	parent, err := s.GetByName(parentName)
	if err != nil {
		return err
	}
	child, err := s.GetByName(childName)
	if err != nil {
		return err
	}
	if relationshipType == "" {
		relationshipType = "component"
	}

	err = s.componentRepo.Delete(parent.ID, child.ID, relationshipType)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s is not a component of %s", childName, parentName)
	}
	return err
}

// GetComponents retrieves the child projects attached under a parent
func (s *ProjectService) GetComponents(parentName string) ([]*models.Project, error) {
	parent, err := s.GetByName(parentName)
	if err != nil {
		return nil, err
	}
	edges, err := s.componentRepo.GetChildren(parent.ID)
	if err != nil {
		return nil, err
	}

	children := make([]*models.Project, 0, len(edges))
	for _, edge := range edges {
		child, err := s.projectRepo.GetByID(edge.ChildID)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}
