package models

import "fmt"

// Terminal states for a single repository sync
const (
	SyncStatusSynced  = "synced"
	SyncStatusSkipped = "skipped"
	SyncStatusFailed  = "failed"
)

// SyncResult is the outcome of syncing one repository
type SyncResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// BatchSummary aggregates the outcomes of a multi-repo sync run. When the
// rate budget runs out mid-run, RateLimited is set and the counts cover
// only the repositories processed before the halt.
type BatchSummary struct {
	Total       int      `json:"total"`
	Synced      int      `json:"synced"`
	Skipped     int      `json:"skipped"`
	Failed      int      `json:"failed"`
	RateLimited bool     `json:"rate_limited"`
	Errors      []string `json:"errors,omitempty"`
}

// Add folds one repository result into the summary
func (s *BatchSummary) Add(result *SyncResult) {
	s.Total++
	switch result.Status {
	case SyncStatusSynced:
		s.Synced++
	case SyncStatusSkipped:
		s.Skipped++
	case SyncStatusFailed:
		s.Failed++
		s.Errors = append(s.Errors, fmt.Sprintf("%s: %s", result.Name, result.Error))
	}
}

// String renders the summary the way the CLI prints it
func (s *BatchSummary) String() string {
	out := fmt.Sprintf("Synced: %d | Failed: %d | Skipped: %d", s.Synced, s.Failed, s.Skipped)
	if s.RateLimited {
		out += " (rate limited)"
	}
	return out
}

// SyncSnapshot is everything one repository sync pass fetched, staged for
// a single persistence transaction. The Fetched flags distinguish "fetch
// skipped or failed" from "fetched and empty": only fetched snapshot
// sections replace what the cache already holds.
type SyncSnapshot struct {
	Project             *Project
	Languages           []*ProjectLanguage
	LanguagesFetched    bool
	Branches            []*ProjectBranch
	Contributors        []*ProjectContributor
	ContributorsFetched bool
	Issues              []*ProjectIssue
	PullRequests        []*ProjectPullRequest
	Releases            []*ProjectRelease
	Versions            []*ProjectVersion
	Documents           []*ProjectDocument
	DocumentsFetched    bool
	Dependencies        []*ProjectDependency
	DependencySources   []string
}

// SyncOptions controls a multi-repo sync run. Zero values fall back to
// the configured defaults.
type SyncOptions struct {
	Force             bool   `json:"force"`
	BatchSize         int    `json:"batch_size"`
	BatchDelaySeconds int    `json:"batch_delay_seconds"`
	Limit             int    `json:"limit"`
	SkipForks         bool   `json:"skip_forks"`
	Language          string `json:"language"`
	Parent            string `json:"parent"`
	MaxIssues         int    `json:"max_issues"`
	MaxPullRequests   int    `json:"max_pull_requests"`
	MaxReleases       int    `json:"max_releases"`
	MaxBranches       int    `json:"max_branches"`
	MaxContributors   int    `json:"max_contributors"`
}
