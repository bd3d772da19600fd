package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Project represents a tracked project. Name is the natural key: for
// projects synced from GitHub it is the "owner/repo" full name, for
// manually added projects it is whatever the user chose.
type Project struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	FullName        *string    `json:"full_name"`
	Description     *string    `json:"description"`
	RepositoryURL   *string    `json:"repository_url"`
	GithubOwner     *string    `json:"github_owner"`
	GithubRepo      *string    `json:"github_repo"`
	PrimaryLanguage *string    `json:"primary_language"`
	Stars           int        `json:"stars"`
	Forks           int        `json:"forks"`
	Watchers        int        `json:"watchers"`
	License         *string    `json:"license"`
	DefaultBranch   *string    `json:"default_branch"`
	Visibility      *string    `json:"visibility"`
	IsFork          bool       `json:"is_fork"`
	Topics          *string    `json:"topics"`
	LastSyncedAt    *time.Time `json:"last_synced_at"`
	GithubCreatedAt *time.Time `json:"github_created_at"`
	GithubUpdatedAt *time.Time `json:"github_updated_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewProject creates a new Project with a generated UUID
func NewProject(name string) *Project {
	return &Project{
		ID:   uuid.New().String(),
		Name: name,
	}
}

// OwnerRepo returns the owner and repo name for GitHub-backed projects
func (p *Project) OwnerRepo() (string, string, bool) {
	if p.GithubOwner != nil && p.GithubRepo != nil && *p.GithubOwner != "" && *p.GithubRepo != "" {
		return *p.GithubOwner, *p.GithubRepo, true
	}
	if strings.Count(p.Name, "/") == 1 {
		parts := strings.SplitN(p.Name, "/", 2)
		if parts[0] != "" && parts[1] != "" {
			return parts[0], parts[1], true
		}
	}
	return "", "", false
}

// SyncedRecently reports whether the project was synced within the window.
// A project that was never synced is never recent.
func (p *Project) SyncedRecently(window time.Duration, now time.Time) bool {
	if p.LastSyncedAt == nil {
		return false
	}
	return now.Sub(p.LastSyncedAt.UTC()) < window
}

// ParseOwnerRepo validates and splits an "owner/repo" reference
func ParseOwnerRepo(ownerRepo string) (string, string, error) {
	parts := strings.Split(strings.TrimSpace(ownerRepo), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository reference %q, expected owner/repo", ownerRepo)
	}
	return parts[0], parts[1], nil
}
