package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entity scopes. The scope says how far an entity name disambiguates:
// global entities (languages, packages) are the same everywhere,
// app-scoped entities (GitHub users) are shared across projects, and
// repo-scoped entities (branches, issues, PRs, versions, docs) are unique
// to one repository.
const (
	ScopeGlobal = "global"
	ScopeApp    = "app"
	ScopeRepo   = "repo"
)

// Link types emitted by the graph linker
const (
	LinkTypeContributor = "contributor"
	LinkTypeLanguage    = "language"
	LinkTypeDependency  = "dependency"
	LinkTypeBranch      = "branch"
	LinkTypeIssue       = "issue"
	LinkTypePR          = "pr"
	LinkTypeVersion     = "version"
	LinkTypeDoc         = "doc"
)

// Entity is a disambiguated named resource in the derived graph layer,
// keyed by its name. The whole layer is rebuildable from the cache tables.
type Entity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName *string   `json:"display_name"`
	Description *string   `json:"description"`
	Scope       string    `json:"scope"`
	EntityType  string    `json:"entity_type"`
	URL         *string   `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEntity creates a new Entity with a generated UUID
func NewEntity(name, scope, entityType string) *Entity {
	return &Entity{
		ID:         uuid.New().String(),
		Name:       name,
		Scope:      scope,
		EntityType: entityType,
	}
}

// Link is a typed, directed relationship between two entities, keyed by
// (source, target, type).
type Link struct {
	ID             string    `json:"id"`
	SourceEntityID string    `json:"source_entity_id"`
	TargetEntityID string    `json:"target_entity_id"`
	LinkType       string    `json:"link_type"`
	Position       int       `json:"position"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewLink creates a new Link with a generated UUID
func NewLink(sourceID, targetID, linkType string, position int) *Link {
	return &Link{
		ID:             uuid.New().String(),
		SourceEntityID: sourceID,
		TargetEntityID: targetID,
		LinkType:       linkType,
		Position:       position,
	}
}

// Entity naming rules. These must stay bit-exact: the CLI, TUI and API
// all resolve cross-references by name.

// LanguageEntityName returns the global name for a language
func LanguageEntityName(language string) string {
	return "lang/" + strings.ToLower(language)
}

// PackageEntityName returns the global name for a package
func PackageEntityName(pkg string) string {
	return "pkg/" + strings.ToLower(pkg)
}

// UserEntityName returns the app-scoped name for a GitHub user
func UserEntityName(username string) string {
	return "github/user/" + strings.ToLower(username)
}

// BranchEntityName returns the repo-scoped name for a branch
func BranchEntityName(owner, repo, branch string) string {
	return fmt.Sprintf("%s/%s/branch/%s", owner, repo, strings.ReplaceAll(branch, "/", "-"))
}

// IssueEntityName returns the repo-scoped name for an issue
func IssueEntityName(owner, repo string, number int) string {
	return fmt.Sprintf("%s/%s/issue/%d", owner, repo, number)
}

// PREntityName returns the repo-scoped name for a pull request
func PREntityName(owner, repo string, number int) string {
	return fmt.Sprintf("%s/%s/pr/%d", owner, repo, number)
}

// VersionEntityName returns the repo-scoped name for a version. Tags keep
// a single leading v regardless of how the raw tag was written.
func VersionEntityName(owner, repo, version string) string {
	slug := strings.ReplaceAll(strings.TrimLeft(version, "vV"), "/", "-")
	return fmt.Sprintf("%s/%s/ver/v%s", owner, repo, slug)
}

// DocEntityName returns the repo-scoped name for a documentation section
func DocEntityName(owner, repo, slug string) string {
	return fmt.Sprintf("%s/%s/doc/%s", owner, repo, slug)
}
