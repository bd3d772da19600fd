package github

import (
	"strings"
	"testing"
	"time"

	gogithub "github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"

	"github.com/reposcope/reposcope/internal/models"
)

func TestToLanguagesPercentages(t *testing.T) {
	t.Run("Percentages round half up to one decimal", func(t *testing.T) {
		languages := ToLanguages("p1", map[string]int{
			"Go":     2,
			"Python": 1,
		})

		assert.Len(t, languages, 2)
		assert.Equal(t, "Go", languages[0].Language)
		assert.Equal(t, 66.7, languages[0].Percentage)
		assert.Equal(t, "Python", languages[1].Language)
		assert.Equal(t, 33.3, languages[1].Percentage)
	})

	t.Run("Zero total yields zero percentages", func(t *testing.T) {
		languages := ToLanguages("p1", map[string]int{"Go": 0})

		assert.Len(t, languages, 1)
		assert.Equal(t, 0.0, languages[0].Percentage)
	})

	t.Run("Ordered by bytes descending", func(t *testing.T) {
		languages := ToLanguages("p1", map[string]int{
			"C":      100,
			"Go":     5000,
			"Python": 300,
		})

		assert.Equal(t, []string{"Go", "Python", "C"}, []string{
			languages[0].Language, languages[1].Language, languages[2].Language,
		})
	})

	t.Run("Known language gets extensions", func(t *testing.T) {
		languages := ToLanguages("p1", map[string]int{"Go": 10})

		assert.NotNil(t, languages[0].FileExtensions)
		assert.Equal(t, ".go", *languages[0].FileExtensions)
	})

	t.Run("Empty breakdown", func(t *testing.T) {
		languages := ToLanguages("p1", map[string]int{})
		assert.Empty(t, languages)
	})
}

func TestRoundHalfUp(t *testing.T) {
	testCases := []struct {
		input float64
		want  float64
	}{
		{66.66666, 66.7},
		{33.33333, 33.3},
		{50.05, 50.1},
		{0.04, 0.0},
		{99.95, 100.0},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, roundHalfUp1(tc.input))
	}
}

func TestToIssuesLabels(t *testing.T) {
	issues := ToIssues("p1", []*gogithub.Issue{
		{
			Number: gogithub.Int(7),
			Title:  gogithub.String("Crash on startup"),
			State:  gogithub.String("open"),
			User:   &gogithub.User{Login: gogithub.String("alice")},
			Labels: []*gogithub.Label{
				{Name: gogithub.String("bug")},
				{Name: gogithub.String("critical")},
				{Name: gogithub.String("bug")},
			},
		},
	})

	assert.Len(t, issues, 1)
	assert.Equal(t, 7, issues[0].IssueNumber)
	assert.NotNil(t, issues[0].Labels)
	// Deduped and sorted
	assert.Equal(t, "bug,critical", *issues[0].Labels)
	assert.Equal(t, "alice", *issues[0].Author)
}

func TestToPullRequestsMergedState(t *testing.T) {
	merged := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	prs := ToPullRequests("p1", []*gogithub.PullRequest{
		{
			Number:   gogithub.Int(1),
			Title:    gogithub.String("Merged change"),
			State:    gogithub.String("closed"),
			MergedAt: &gogithub.Timestamp{Time: merged},
		},
		{
			Number: gogithub.Int(2),
			Title:  gogithub.String("Abandoned change"),
			State:  gogithub.String("closed"),
		},
		{
			Number: gogithub.Int(3),
			Title:  gogithub.String("Open change"),
			State:  gogithub.String("open"),
			Draft:  gogithub.Bool(true),
		},
	})

	assert.Len(t, prs, 3)
	assert.Equal(t, "merged", prs[0].State)
	assert.True(t, prs[0].IsMerged)
	assert.Equal(t, merged, prs[0].PRMergedAt.UTC())
	assert.Equal(t, "closed", prs[1].State)
	assert.False(t, prs[1].IsMerged)
	assert.Equal(t, "open", prs[2].State)
	assert.True(t, prs[2].IsDraft)
}

func TestToReleasesBodyTruncation(t *testing.T) {
	long := strings.Repeat("a", 600)

	releases := ToReleases("p1", []*gogithub.RepositoryRelease{
		{TagName: gogithub.String("v1.0.0"), Body: gogithub.String(long)},
		{TagName: gogithub.String("v0.9.0"), Body: gogithub.String("short")},
		{Body: gogithub.String("no tag, dropped")},
	})

	assert.Len(t, releases, 2)
	assert.Equal(t, 500, len(*releases[0].Body))
	assert.True(t, strings.HasSuffix(*releases[0].Body, "..."))
	assert.Equal(t, "short", *releases[1].Body)
}

func TestToVersionsLatestFlag(t *testing.T) {
	releases := []*gogithub.RepositoryRelease{
		{TagName: gogithub.String("v1.2.0")},
		{TagName: gogithub.String("v2.0.0-rc.1")},
		{TagName: gogithub.String("v1.10.0")},
		{TagName: gogithub.String("v3.0.0"), Draft: gogithub.Bool(true)},
	}

	versions := ToVersions("p1", releases)

	assert.Len(t, versions, 3)
	var latest *models.ProjectVersion
	for _, v := range versions {
		if v.IsLatest {
			assert.Nil(t, latest, "only one version may be latest")
			latest = v
		}
	}
	assert.NotNil(t, latest)
	// 2.0.0-rc.1 beats 1.10.0; the draft 3.0.0 never became a version
	assert.Equal(t, "v2.0.0-rc.1", latest.Version)
}

func TestApplyRepository(t *testing.T) {
	project := models.NewProject("golang/go")
	created := time.Date(2009, 11, 10, 0, 0, 0, 0, time.UTC)

	ApplyRepository(project, &gogithub.Repository{
		FullName:         gogithub.String("golang/go"),
		Name:             gogithub.String("go"),
		Owner:            &gogithub.User{Login: gogithub.String("golang")},
		Description:      gogithub.String("The Go programming language"),
		HTMLURL:          gogithub.String("https://github.com/golang/go"),
		Language:         gogithub.String("Go"),
		StargazersCount:  gogithub.Int(120000),
		ForksCount:       gogithub.Int(17000),
		SubscribersCount: gogithub.Int(3500),
		License:          &gogithub.License{SPDXID: gogithub.String("BSD-3-Clause")},
		DefaultBranch:    gogithub.String("master"),
		Visibility:       gogithub.String("public"),
		Fork:             gogithub.Bool(false),
		Topics:           []string{"go", "language"},
		CreatedAt:        &gogithub.Timestamp{Time: created},
	})

	assert.Equal(t, "golang/go", *project.FullName)
	assert.Equal(t, "golang", *project.GithubOwner)
	assert.Equal(t, "go", *project.GithubRepo)
	assert.Equal(t, "Go", *project.PrimaryLanguage)
	assert.Equal(t, 120000, project.Stars)
	assert.Equal(t, 3500, project.Watchers)
	assert.Equal(t, "BSD-3-Clause", *project.License)
	assert.Equal(t, "go,language", *project.Topics)
	assert.Equal(t, created, *project.GithubCreatedAt)
}

func TestToBranches(t *testing.T) {
	raws := []RawBranch{
		{
			Branch: &gogithub.Branch{
				Name:      gogithub.String("master"),
				Protected: gogithub.Bool(true),
				Commit:    &gogithub.RepositoryCommit{SHA: gogithub.String("abc123")},
			},
			Commit: &gogithub.RepositoryCommit{
				Commit: &gogithub.Commit{
					Message: gogithub.String("Fix parser\n\nLonger explanation"),
					Author: &gogithub.CommitAuthor{
						Name: gogithub.String("Alice"),
						Date: &gogithub.Timestamp{Time: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
					},
				},
			},
		},
		{
			Branch: &gogithub.Branch{Name: gogithub.String("dev")},
		},
	}

	branches := ToBranches("p1", raws, "master")

	assert.Len(t, branches, 2)
	assert.True(t, branches[0].IsDefault)
	assert.True(t, branches[0].IsProtected)
	assert.Equal(t, "abc123", *branches[0].CommitSHA)
	assert.Equal(t, "Fix parser", *branches[0].CommitMessage)
	assert.Equal(t, "Alice", *branches[0].CommitAuthor)
	assert.False(t, branches[1].IsDefault)
	assert.Nil(t, branches[1].CommitSHA)
}

func TestToContributorsSkipsAnonymous(t *testing.T) {
	contributors := ToContributors("p1", []*gogithub.Contributor{
		{Login: gogithub.String("alice"), Contributions: gogithub.Int(100)},
		{Contributions: gogithub.Int(50)},
	})

	assert.Len(t, contributors, 1)
	assert.Equal(t, "alice", contributors[0].Username)
	assert.Equal(t, 100, contributors[0].Contributions)
}
