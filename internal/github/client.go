package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

const defaultCallTimeout = 30 * time.Second

// RawBranch pairs a branch listing entry with its latest commit details.
// The commit lookup is best-effort; Commit stays nil when it fails.
type RawBranch struct {
	Branch *gogithub.Branch
	Commit *gogithub.RepositoryCommit
}

// Client performs authenticated calls against the GitHub API. Every call
// is gated on the shared RateLimitTracker before it goes out and feeds
// the tracker from response metadata afterwards, including on errors.
type Client struct {
	gh      *gogithub.Client
	tracker *RateLimitTracker
	timeout time.Duration
}

// NewClient creates a Client. An empty token is allowed; the API then
// serves the lower unauthenticated budget.
func NewClient(token string, tracker *RateLimitTracker) *Client {
	gh := gogithub.NewClient(nil)
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		gh = gogithub.NewClient(oauth2.NewClient(context.Background(), ts))
	}

	return &Client{
		gh:      gh,
		tracker: tracker,
		timeout: defaultCallTimeout,
	}
}

// SetBaseURL points the client at a different API root. Tests aim this
// at an httptest server.
func (c *Client) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	c.gh.BaseURL = parsed
	return nil
}

// Tracker returns the shared rate limit tracker
func (c *Client) Tracker() *RateLimitTracker {
	return c.tracker
}

// gate refuses the call up front when the tracker reports exhaustion
func (c *Client) gate() error {
	if c.tracker.IsExhausted() {
		return &RateLimitedError{ResetAt: c.tracker.ResetTime()}
	}
	return nil
}

// finish updates the tracker and classifies the error for one call
func (c *Client) finish(resp *gogithub.Response, err error, resource string) error {
	c.tracker.UpdateFromResponse(resp)
	return classifyError(err, resource)
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// GetRepository fetches repository metadata. This is the one required
// fetch of a sync pass; its failure aborts the repository's sync.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*gogithub.Repository, error) {
	if err := c.gate(); err != nil {
		return nil, err
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	repository, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err := c.finish(resp, err, fmt.Sprintf("repository %s/%s", owner, repo)); err != nil {
		return nil, err
	}
	return repository, nil
}

// GetReadme fetches the repository README. Returns nil without error when
// the repository has no README; that is data, not a failure.
func (c *Client) GetReadme(ctx context.Context, owner, repo string) (*string, error) {
	if err := c.gate(); err != nil {
		return nil, err
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	readme, resp, err := c.gh.Repositories.GetReadme(ctx, owner, repo, nil)
	if err := c.finish(resp, err, fmt.Sprintf("readme of %s/%s", owner, repo)); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	content, err := readme.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode readme content: %w", err)
	}
	return &content, nil
}

// GetFileContent fetches one file from the repository root. Returns nil
// without error when the file does not exist.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path string) (*string, error) {
	if err := c.gate(); err != nil {
		return nil, err
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err := c.finish(resp, err, fmt.Sprintf("file %s in %s/%s", path, owner, repo)); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if file == nil {
		return nil, nil
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s content: %w", path, err)
	}
	return &content, nil
}

// ListLanguages fetches the byte count per language. A 404 maps to an
// empty breakdown.
func (c *Client) ListLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	if err := c.gate(); err != nil {
		return nil, err
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	languages, resp, err := c.gh.Repositories.ListLanguages(ctx, owner, repo)
	if err := c.finish(resp, err, fmt.Sprintf("languages of %s/%s", owner, repo)); err != nil {
		if IsNotFound(err) {
			return map[string]int{}, nil
		}
		return nil, err
	}
	return languages, nil
}

// ListBranches fetches up to max branches with their latest commit
// details. Commit lookups that fail leave the summary fields empty.
func (c *Client) ListBranches(ctx context.Context, owner, repo string, max int) ([]RawBranch, error) {
	var branches []RawBranch
	opts := &gogithub.BranchListOptions{
		ListOptions: gogithub.ListOptions{PerPage: pageSize(max)},
	}

	for len(branches) < max {
		if err := c.gate(); err != nil {
			return branches, err
		}
		callCtx, cancel := c.callContext(ctx)
		page, resp, err := c.gh.Repositories.ListBranches(callCtx, owner, repo, opts)
		cancel()
		if err := c.finish(resp, err, fmt.Sprintf("branches of %s/%s", owner, repo)); err != nil {
			if IsNotFound(err) {
				break
			}
			return branches, err
		}

		for _, branch := range page {
			if len(branches) >= max {
				break
			}
			raw := RawBranch{Branch: branch}
			if sha := branch.GetCommit().GetSHA(); sha != "" {
				raw.Commit = c.getCommit(ctx, owner, repo, sha)
			}
			branches = append(branches, raw)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return branches, nil
}

// getCommit fetches commit details for a branch head, best-effort
func (c *Client) getCommit(ctx context.Context, owner, repo, sha string) *gogithub.RepositoryCommit {
	if err := c.gate(); err != nil {
		return nil
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	commit, resp, err := c.gh.Repositories.GetCommit(ctx, owner, repo, sha, nil)
	if err := c.finish(resp, err, fmt.Sprintf("commit %s of %s/%s", sha, owner, repo)); err != nil {
		return nil
	}
	return commit
}

// ListContributors fetches up to max contributors, ranked by the API
func (c *Client) ListContributors(ctx context.Context, owner, repo string, max int) ([]*gogithub.Contributor, error) {
	var contributors []*gogithub.Contributor
	opts := &gogithub.ListContributorsOptions{
		ListOptions: gogithub.ListOptions{PerPage: pageSize(max)},
	}

	for len(contributors) < max {
		if err := c.gate(); err != nil {
			return contributors, err
		}
		callCtx, cancel := c.callContext(ctx)
		page, resp, err := c.gh.Repositories.ListContributors(callCtx, owner, repo, opts)
		cancel()
		if err := c.finish(resp, err, fmt.Sprintf("contributors of %s/%s", owner, repo)); err != nil {
			if IsNotFound(err) {
				break
			}
			return contributors, err
		}

		contributors = append(contributors, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if len(contributors) > max {
		contributors = contributors[:max]
	}
	return contributors, nil
}

// ListIssues fetches up to max issues in any state. Pull requests also
// appear on the issues endpoint and are filtered out here.
func (c *Client) ListIssues(ctx context.Context, owner, repo string, max int) ([]*gogithub.Issue, error) {
	var issues []*gogithub.Issue
	opts := &gogithub.IssueListByRepoOptions{
		State:       "all",
		ListOptions: gogithub.ListOptions{PerPage: pageSize(max)},
	}

	for len(issues) < max {
		if err := c.gate(); err != nil {
			return issues, err
		}
		callCtx, cancel := c.callContext(ctx)
		page, resp, err := c.gh.Issues.ListByRepo(callCtx, owner, repo, opts)
		cancel()
		if err := c.finish(resp, err, fmt.Sprintf("issues of %s/%s", owner, repo)); err != nil {
			if IsNotFound(err) {
				break
			}
			return issues, err
		}

		for _, issue := range page {
			if issue.IsPullRequest() {
				continue
			}
			if len(issues) >= max {
				break
			}
			issues = append(issues, issue)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return issues, nil
}

// ListPullRequests fetches up to max pull requests in any state, most
// recently updated first
func (c *Client) ListPullRequests(ctx context.Context, owner, repo string, max int) ([]*gogithub.PullRequest, error) {
	var prs []*gogithub.PullRequest
	opts := &gogithub.PullRequestListOptions{
		State:       "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gogithub.ListOptions{PerPage: pageSize(max)},
	}

	for len(prs) < max {
		if err := c.gate(); err != nil {
			return prs, err
		}
		callCtx, cancel := c.callContext(ctx)
		page, resp, err := c.gh.PullRequests.List(callCtx, owner, repo, opts)
		cancel()
		if err := c.finish(resp, err, fmt.Sprintf("pull requests of %s/%s", owner, repo)); err != nil {
			if IsNotFound(err) {
				break
			}
			return prs, err
		}

		prs = append(prs, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if len(prs) > max {
		prs = prs[:max]
	}
	return prs, nil
}

// ListReleases fetches up to max releases
func (c *Client) ListReleases(ctx context.Context, owner, repo string, max int) ([]*gogithub.RepositoryRelease, error) {
	var releases []*gogithub.RepositoryRelease
	opts := &gogithub.ListOptions{PerPage: pageSize(max)}

	for len(releases) < max {
		if err := c.gate(); err != nil {
			return releases, err
		}
		callCtx, cancel := c.callContext(ctx)
		page, resp, err := c.gh.Repositories.ListReleases(callCtx, owner, repo, opts)
		cancel()
		if err := c.finish(resp, err, fmt.Sprintf("releases of %s/%s", owner, repo)); err != nil {
			if IsNotFound(err) {
				break
			}
			return releases, err
		}

		releases = append(releases, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if len(releases) > max {
		releases = releases[:max]
	}
	return releases, nil
}

// SearchRepositories runs a repository search, returning at most limit
// results sorted by stars
func (c *Client) SearchRepositories(ctx context.Context, query string, limit int) ([]*gogithub.Repository, error) {
	if err := c.gate(); err != nil {
		return nil, err
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	opts := &gogithub.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: gogithub.ListOptions{PerPage: pageSize(limit)},
	}
	result, resp, err := c.gh.Search.Repositories(ctx, query, opts)
	if err := c.finish(resp, err, fmt.Sprintf("search %q", query)); err != nil {
		return nil, err
	}

	repos := result.Repositories
	if len(repos) > limit {
		repos = repos[:limit]
	}
	return repos, nil
}

// ListUserRepos returns a lazy iterator over a user's repositories.
// Pages are fetched on demand as the iterator advances.
func (c *Client) ListUserRepos(username string, perPage int) *RepoIterator {
	opts := &gogithub.RepositoryListOptions{
		Type:        "owner",
		Sort:        "updated",
		ListOptions: gogithub.ListOptions{PerPage: pageSize(perPage)},
	}
	return newRepoIterator(c, func(ctx context.Context, page int) ([]*gogithub.Repository, *gogithub.Response, error) {
		opts.Page = page
		return c.gh.Repositories.List(ctx, username, opts)
	}, fmt.Sprintf("repositories of user %s", username))
}

// ListOrgRepos returns a lazy iterator over an organization's repositories
func (c *Client) ListOrgRepos(org string, perPage int) *RepoIterator {
	opts := &gogithub.RepositoryListByOrgOptions{
		Type:        "all",
		Sort:        "updated",
		ListOptions: gogithub.ListOptions{PerPage: pageSize(perPage)},
	}
	return newRepoIterator(c, func(ctx context.Context, page int) ([]*gogithub.Repository, *gogithub.Response, error) {
		opts.Page = page
		return c.gh.Repositories.ListByOrg(ctx, org, opts)
	}, fmt.Sprintf("repositories of org %s", org))
}

func pageSize(max int) int {
	if max <= 0 || max > 100 {
		return 100
	}
	return max
}
