package github

import (
	"math"
	"sort"
	"strings"

	gogithub "github.com/google/go-github/v57/github"

	"github.com/reposcope/reposcope/internal/models"
)

const releaseBodyLimit = 497

// ApplyRepository fills a project from repository metadata. The project
// keeps its identity fields; everything GitHub owns is overwritten.
func ApplyRepository(project *models.Project, repo *gogithub.Repository) {
	fullName := repo.GetFullName()
	project.FullName = &fullName

	if desc := repo.GetDescription(); desc != "" {
		project.Description = &desc
	} else {
		project.Description = nil
	}
	if url := repo.GetHTMLURL(); url != "" {
		project.RepositoryURL = &url
	}
	if owner := repo.GetOwner().GetLogin(); owner != "" {
		project.GithubOwner = &owner
	}
	if name := repo.GetName(); name != "" {
		project.GithubRepo = &name
	}
	if lang := repo.GetLanguage(); lang != "" {
		project.PrimaryLanguage = &lang
	} else {
		project.PrimaryLanguage = nil
	}

	project.Stars = repo.GetStargazersCount()
	project.Forks = repo.GetForksCount()
	project.Watchers = repo.GetSubscribersCount()
	project.IsFork = repo.GetFork()

	if license := repo.GetLicense().GetSPDXID(); license != "" && license != "NOASSERTION" {
		project.License = &license
	} else {
		project.License = nil
	}
	if branch := repo.GetDefaultBranch(); branch != "" {
		project.DefaultBranch = &branch
	}
	if visibility := repo.GetVisibility(); visibility != "" {
		project.Visibility = &visibility
	}
	if topics := repo.Topics; len(topics) > 0 {
		joined := strings.Join(topics, ",")
		project.Topics = &joined
	} else {
		project.Topics = nil
	}

	if created := repo.GetCreatedAt(); !created.IsZero() {
		t := created.Time.UTC()
		project.GithubCreatedAt = &t
	}
	if updated := repo.GetUpdatedAt(); !updated.IsZero() {
		t := updated.Time.UTC()
		project.GithubUpdatedAt = &t
	}
}

// ToLanguages converts a byte-count breakdown to language rows ordered by
// byte count descending. Percentages are rounded half-up to one decimal;
// a zero total yields zero percentages rather than a division error.
func ToLanguages(projectID string, byteCounts map[string]int) []*models.ProjectLanguage {
	names := make([]string, 0, len(byteCounts))
	total := 0
	for name, count := range byteCounts {
		names = append(names, name)
		total += count
	}
	sort.Slice(names, func(i, j int) bool {
		if byteCounts[names[i]] != byteCounts[names[j]] {
			return byteCounts[names[i]] > byteCounts[names[j]]
		}
		return names[i] < names[j]
	})

	languages := make([]*models.ProjectLanguage, 0, len(names))
	for _, name := range names {
		pct := 0.0
		if total > 0 {
			pct = roundHalfUp1(float64(byteCounts[name]) / float64(total) * 100)
		}
		lang := models.NewProjectLanguage(projectID, name, int64(byteCounts[name]), pct)
		if info, ok := languageInfo[strings.ToLower(name)]; ok {
			extensions := strings.Join(info.Extensions, ",")
			lang.FileExtensions = &extensions
			encoding := info.Encoding
			lang.Encoding = &encoding
		}
		languages = append(languages, lang)
	}
	return languages
}

// ToBranch converts one branch with its optional commit details
func ToBranch(projectID string, raw RawBranch, defaultBranch string) *models.ProjectBranch {
	branch := models.NewProjectBranch(projectID, raw.Branch.GetName())
	branch.IsDefault = raw.Branch.GetName() == defaultBranch
	branch.IsProtected = raw.Branch.GetProtected()

	if sha := raw.Branch.GetCommit().GetSHA(); sha != "" {
		branch.CommitSHA = &sha
	}
	if raw.Commit != nil {
		commit := raw.Commit.GetCommit()
		if msg := firstLine(commit.GetMessage()); msg != "" {
			branch.CommitMessage = &msg
		}
		if author := commit.GetAuthor().GetName(); author != "" {
			branch.CommitAuthor = &author
		}
		if date := commit.GetAuthor().GetDate(); !date.IsZero() {
			t := date.Time.UTC()
			branch.CommitDate = &t
		}
	}
	return branch
}

// ToBranches converts a branch listing
func ToBranches(projectID string, raws []RawBranch, defaultBranch string) []*models.ProjectBranch {
	branches := make([]*models.ProjectBranch, 0, len(raws))
	for _, raw := range raws {
		branches = append(branches, ToBranch(projectID, raw, defaultBranch))
	}
	return branches
}

// ToContributors converts a ranked contributor listing, dropping entries
// without a username
func ToContributors(projectID string, raws []*gogithub.Contributor) []*models.ProjectContributor {
	contributors := make([]*models.ProjectContributor, 0, len(raws))
	for _, raw := range raws {
		username := raw.GetLogin()
		if username == "" {
			continue
		}
		contributor := models.NewProjectContributor(projectID, username, raw.GetContributions())
		if avatar := raw.GetAvatarURL(); avatar != "" {
			contributor.AvatarURL = &avatar
		}
		if profile := raw.GetHTMLURL(); profile != "" {
			contributor.ProfileURL = &profile
		}
		contributors = append(contributors, contributor)
	}
	return contributors
}

// ToIssues converts an issue listing
func ToIssues(projectID string, raws []*gogithub.Issue) []*models.ProjectIssue {
	issues := make([]*models.ProjectIssue, 0, len(raws))
	for _, raw := range raws {
		issue := models.NewProjectIssue(projectID, raw.GetNumber(), raw.GetTitle())
		issue.State = raw.GetState()
		if author := raw.GetUser().GetLogin(); author != "" {
			issue.Author = &author
		}
		if labels := joinLabels(issueLabelNames(raw.Labels)); labels != "" {
			issue.Labels = &labels
		}
		if created := raw.GetCreatedAt(); !created.IsZero() {
			t := created.Time.UTC()
			issue.IssueCreatedAt = &t
		}
		if updated := raw.GetUpdatedAt(); !updated.IsZero() {
			t := updated.Time.UTC()
			issue.IssueUpdatedAt = &t
		}
		issues = append(issues, issue)
	}
	return issues
}

// ToPullRequests converts a pull request listing. Merged pull requests
// report state "closed" on the wire; state becomes "merged" here.
func ToPullRequests(projectID string, raws []*gogithub.PullRequest) []*models.ProjectPullRequest {
	prs := make([]*models.ProjectPullRequest, 0, len(raws))
	for _, raw := range raws {
		pr := models.NewProjectPullRequest(projectID, raw.GetNumber(), raw.GetTitle())
		pr.State = raw.GetState()
		pr.IsDraft = raw.GetDraft()
		if raw.MergedAt != nil && !raw.MergedAt.IsZero() {
			pr.State = "merged"
			pr.IsMerged = true
			t := raw.MergedAt.Time.UTC()
			pr.PRMergedAt = &t
		}
		if author := raw.GetUser().GetLogin(); author != "" {
			pr.Author = &author
		}
		if base := raw.GetBase().GetRef(); base != "" {
			pr.BaseBranch = &base
		}
		if head := raw.GetHead().GetRef(); head != "" {
			pr.HeadBranch = &head
		}
		pr.Additions = raw.GetAdditions()
		pr.Deletions = raw.GetDeletions()
		if labels := joinLabels(issueLabelNames(raw.Labels)); labels != "" {
			pr.Labels = &labels
		}
		if created := raw.GetCreatedAt(); !created.IsZero() {
			t := created.Time.UTC()
			pr.PRCreatedAt = &t
		}
		if updated := raw.GetUpdatedAt(); !updated.IsZero() {
			t := updated.Time.UTC()
			pr.PRUpdatedAt = &t
		}
		prs = append(prs, pr)
	}
	return prs
}

// ToReleases converts a release listing. Long bodies are truncated so
// list views stay bounded.
func ToReleases(projectID string, raws []*gogithub.RepositoryRelease) []*models.ProjectRelease {
	releases := make([]*models.ProjectRelease, 0, len(raws))
	for _, raw := range raws {
		if raw.GetTagName() == "" {
			continue
		}
		release := models.NewProjectRelease(projectID, raw.GetTagName())
		if name := raw.GetName(); name != "" {
			release.Name = &name
		}
		if body := raw.GetBody(); body != "" {
			if len(body) > releaseBodyLimit {
				body = body[:releaseBodyLimit] + "..."
			}
			release.Body = &body
		}
		release.IsPrerelease = raw.GetPrerelease()
		release.IsDraft = raw.GetDraft()
		if author := raw.GetAuthor().GetLogin(); author != "" {
			release.Author = &author
		}
		if target := raw.GetTargetCommitish(); target != "" {
			release.TargetCommitish = &target
		}
		if created := raw.GetCreatedAt(); !created.IsZero() {
			t := created.Time.UTC()
			release.ReleaseCreatedAt = &t
		}
		if published := raw.GetPublishedAt(); !published.IsZero() {
			t := published.Time.UTC()
			release.ReleasePublishedAt = &t
		}
		releases = append(releases, release)
	}
	return releases
}

// ToVersions derives version rows from releases. The highest version by
// semver order is flagged latest; draft releases never produce versions.
func ToVersions(projectID string, raws []*gogithub.RepositoryRelease) []*models.ProjectVersion {
	versions := make([]*models.ProjectVersion, 0, len(raws))
	for _, raw := range raws {
		tag := raw.GetTagName()
		if tag == "" || raw.GetDraft() {
			continue
		}
		version := models.NewProjectVersion(projectID, tag, "release")
		if url := raw.GetHTMLURL(); url != "" {
			version.ReleaseURL = &url
		}
		if published := raw.GetPublishedAt(); !published.IsZero() {
			t := published.Time.UTC()
			version.ReleaseDate = &t
		}
		versions = append(versions, version)
	}

	if len(versions) > 0 {
		latest := versions[0]
		for _, v := range versions[1:] {
			if v.Compare(latest) > 0 {
				latest = v
			}
		}
		latest.IsLatest = true
	}
	return versions
}

// roundHalfUp1 rounds to one decimal with ties going up
func roundHalfUp1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

// joinLabels dedupes, sorts and comma-joins label names
func joinLabels(names []string) string {
	seen := make(map[string]bool, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		unique = append(unique, name)
	}
	sort.Strings(unique)
	return strings.Join(unique, ",")
}

func issueLabelNames(labels []*gogithub.Label) []string {
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		names = append(names, label.GetName())
	}
	return names
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
