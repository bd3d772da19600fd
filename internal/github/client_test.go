package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gogithub "github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateOf(remaining int) gogithub.Rate {
	return gogithub.Rate{Limit: 60, Remaining: remaining, Reset: gogithub.Timestamp{Time: time.Now().Add(time.Hour)}}
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *RateLimitTracker) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tracker := NewRateLimitTracker()
	client := NewClient("", tracker)
	require.NoError(t, client.SetBaseURL(server.URL))
	return client, tracker
}

func writeRateHeaders(w http.ResponseWriter, remaining int) {
	w.Header().Set("X-Ratelimit-Limit", "60")
	w.Header().Set("X-Ratelimit-Remaining", fmt.Sprintf("%d", remaining))
	w.Header().Set("X-Ratelimit-Reset", fmt.Sprintf("%d", time.Now().Add(time.Hour).Unix()))
}

func TestGetRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/golang/go", func(w http.ResponseWriter, r *http.Request) {
		writeRateHeaders(w, 42)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"full_name": "golang/go", "name": "go", "owner": {"login": "golang"}, "stargazers_count": 5}`)
	})

	client, tracker := newTestClient(t, mux)

	repo, err := client.GetRepository(context.Background(), "golang", "go")
	require.NoError(t, err)
	assert.Equal(t, "golang/go", repo.GetFullName())
	assert.Equal(t, 5, repo.GetStargazersCount())

	// Rate headers from the response landed in the tracker
	assert.Equal(t, 42, tracker.RemainingBudget())
}

func TestGetRepositoryNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/nobody/nothing", func(w http.ResponseWriter, r *http.Request) {
		writeRateHeaders(w, 41)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})

	client, _ := newTestClient(t, mux)

	_, err := client.GetRepository(context.Background(), "nobody", "nothing")
	assert.True(t, IsNotFound(err))
}

func TestGateRefusesWhenExhausted(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	client, tracker := newTestClient(t, mux)
	tracker.Update(rateOf(0))

	_, err := client.GetRepository(context.Background(), "golang", "go")
	assert.True(t, IsRateLimited(err))
	assert.Zero(t, calls, "no call goes out on an exhausted budget")
}

func TestGetReadmeMissing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/golang/go/readme", func(w http.ResponseWriter, r *http.Request) {
		writeRateHeaders(w, 40)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})

	client, _ := newTestClient(t, mux)

	readme, err := client.GetReadme(context.Background(), "golang", "go")
	assert.NoError(t, err)
	assert.Nil(t, readme)
}

func TestListIssuesSkipsPullRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/golang/go/issues", func(w http.ResponseWriter, r *http.Request) {
		writeRateHeaders(w, 39)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"number": 1, "title": "Real issue", "state": "open"},
			{"number": 2, "title": "Actually a PR", "state": "open", "pull_request": {"url": "https://example.com"}}
		]`)
	})

	client, _ := newTestClient(t, mux)

	issues, err := client.ListIssues(context.Background(), "golang", "go", 20)
	require.NoError(t, err)
	assert.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].GetNumber())
}

func TestListBranchesRespectsCap(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/golang/go/branches", func(w http.ResponseWriter, r *http.Request) {
		writeRateHeaders(w, 38)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"name": "main"},
			{"name": "dev"},
			{"name": "release-1.0"}
		]`)
	})

	client, _ := newTestClient(t, mux)

	branches, err := client.ListBranches(context.Background(), "golang", "go", 2)
	require.NoError(t, err)
	assert.Len(t, branches, 2)
}

func TestSearchRepositories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		writeRateHeaders(w, 36)
		assert.Equal(t, "widget language:go", r.URL.Query().Get("q"))
		assert.Equal(t, "stars", r.URL.Query().Get("sort"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total_count": 3, "items": [
			{"full_name": "acme/widget", "stargazers_count": 30},
			{"full_name": "acme/widget-ui", "stargazers_count": 20},
			{"full_name": "acme/widget-old", "stargazers_count": 10}
		]}`)
	})

	client, _ := newTestClient(t, mux)

	repos, err := client.SearchRepositories(context.Background(), "widget language:go", 2)
	require.NoError(t, err)
	require.Len(t, repos, 2, "results are capped at the limit")
	assert.Equal(t, "acme/widget", repos[0].GetFullName())
}

func TestListUserReposIterator(t *testing.T) {
	page := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/users/alice/repos", func(w http.ResponseWriter, r *http.Request) {
		page++
		writeRateHeaders(w, 37)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"full_name": "alice/three"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
		fmt.Fprint(w, `[{"full_name": "alice/one"}, {"full_name": "alice/two"}]`)
	})

	client, _ := newTestClient(t, mux)

	var names []string
	it := client.ListUserRepos("alice", 2)
	for it.Next(context.Background()) {
		names = append(names, it.Repo().GetFullName())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []string{"alice/one", "alice/two", "alice/three"}, names)
	assert.Equal(t, 2, page)
}
