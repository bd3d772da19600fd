package services

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/reposcope/reposcope/internal/models"
	"github.com/reposcope/reposcope/internal/repositories"
)

// ExportService renders the cache as an Excel workbook, one sheet per
// section, for offline review of what the cache holds.
type ExportService struct {
	projectRepo     *repositories.ProjectRepository
	languageRepo    *repositories.LanguageRepository
	dependencyRepo  *repositories.DependencyRepository
	contributorRepo *repositories.ContributorRepository
	issueRepo       *repositories.IssueRepository
	prRepo          *repositories.PullRequestRepository
	releaseRepo     *repositories.ReleaseRepository
}

func NewExportService(
	projectRepo *repositories.ProjectRepository,
	languageRepo *repositories.LanguageRepository,
	dependencyRepo *repositories.DependencyRepository,
	contributorRepo *repositories.ContributorRepository,
	issueRepo *repositories.IssueRepository,
	prRepo *repositories.PullRequestRepository,
	releaseRepo *repositories.ReleaseRepository,
) *ExportService {
	return &ExportService{
		projectRepo:     projectRepo,
		languageRepo:    languageRepo,
		dependencyRepo:  dependencyRepo,
		contributorRepo: contributorRepo,
		issueRepo:       issueRepo,
		prRepo:          prRepo,
		releaseRepo:     releaseRepo,
	}
}

// ExportWorkbook builds a workbook covering every cached project
func (s *ExportService) ExportWorkbook() (*excelize.File, error) {
	projects, err := s.projectRepo.List(repositories.ProjectFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	f := excelize.NewFile()
	if err := s.writeProjectsSheet(f, projects); err != nil {
		return nil, err
	}
	if err := s.writeLanguagesSheet(f, projects); err != nil {
		return nil, err
	}
	if err := s.writeDependenciesSheet(f, projects); err != nil {
		return nil, err
	}
	if err := s.writeIssuesSheet(f, projects); err != nil {
		return nil, err
	}
	if err := s.writePullRequestsSheet(f, projects); err != nil {
		return nil, err
	}
	if err := s.writeReleasesSheet(f, projects); err != nil {
		return nil, err
	}
	if err := s.writeContributorsSheet(f, projects); err != nil {
		return nil, err
	}

	// The default sheet excelize creates is replaced by Projects
	f.DeleteSheet("Sheet1")
	index, err := f.GetSheetIndex("Projects")
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	return f, nil
}

func (s *ExportService) writeProjectsSheet(f *excelize.File, projects []*models.Project) error {
	const sheet = "Projects"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []interface{}{"Name", "Description", "Primary Language", "Stars", "Forks", "Watchers", "License", "Fork", "Last Synced"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	for i, project := range projects {
		row := []interface{}{
			project.Name,
			deref(project.Description),
			deref(project.PrimaryLanguage),
			project.Stars,
			project.Forks,
			project.Watchers,
			deref(project.License),
			project.IsFork,
			formatTime(project.LastSyncedAt),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) writeLanguagesSheet(f *excelize.File, projects []*models.Project) error {
	const sheet = "Languages"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []interface{}{"Project", "Language", "Bytes", "Percentage"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	row := 2
	for _, project := range projects {
		languages, err := s.languageRepo.GetByProjectID(project.ID)
		if err != nil {
			return err
		}
		for _, lang := range languages {
			values := []interface{}{project.Name, lang.Language, lang.BytesCount, lang.Percentage}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (s *ExportService) writeDependenciesSheet(f *excelize.File, projects []*models.Project) error {
	const sheet = "Dependencies"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []interface{}{"Project", "Package", "Version Spec", "Type", "Source"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	row := 2
	for _, project := range projects {
		deps, err := s.dependencyRepo.GetByProjectID(project.ID)
		if err != nil {
			return err
		}
		for _, dep := range deps {
			values := []interface{}{project.Name, dep.Name, deref(dep.VersionSpec), dep.DepType, dep.Source}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (s *ExportService) writeIssuesSheet(f *excelize.File, projects []*models.Project) error {
	const sheet = "Issues"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []interface{}{"Project", "Number", "Title", "State", "Author", "Labels", "Created"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	row := 2
	for _, project := range projects {
		issues, err := s.issueRepo.GetByProjectID(project.ID, "")
		if err != nil {
			return err
		}
		for _, issue := range issues {
			values := []interface{}{project.Name, issue.IssueNumber, issue.Title, issue.State,
				deref(issue.Author), deref(issue.Labels), formatTime(issue.IssueCreatedAt)}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (s *ExportService) writePullRequestsSheet(f *excelize.File, projects []*models.Project) error {
	const sheet = "Pull Requests"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []interface{}{"Project", "Number", "Title", "State", "Author", "Base", "Head", "Merged"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	row := 2
	for _, project := range projects {
		prs, err := s.prRepo.GetByProjectID(project.ID, "")
		if err != nil {
			return err
		}
		for _, pr := range prs {
			values := []interface{}{project.Name, pr.PRNumber, pr.Title, pr.State,
				deref(pr.Author), deref(pr.BaseBranch), deref(pr.HeadBranch), formatTime(pr.PRMergedAt)}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (s *ExportService) writeReleasesSheet(f *excelize.File, projects []*models.Project) error {
	const sheet = "Releases"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []interface{}{"Project", "Tag", "Name", "Prerelease", "Author", "Published"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	row := 2
	for _, project := range projects {
		releases, err := s.releaseRepo.GetByProjectID(project.ID)
		if err != nil {
			return err
		}
		for _, release := range releases {
			values := []interface{}{project.Name, release.TagName, deref(release.Name),
				release.IsPrerelease, deref(release.Author), formatTime(release.ReleasePublishedAt)}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (s *ExportService) writeContributorsSheet(f *excelize.File, projects []*models.Project) error {
	const sheet = "Contributors"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []interface{}{"Project", "Username", "Contributions"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	row := 2
	for _, project := range projects {
		contributors, err := s.contributorRepo.GetByProjectID(project.ID)
		if err != nil {
			return err
		}
		for _, contributor := range contributors {
			values := []interface{}{project.Name, contributor.Username, contributor.Contributions}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
