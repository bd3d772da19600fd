package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProjectVersion is a version tracked for a project, usually derived from
// a release tag. Versions follow semver where possible; strings that do
// not parse keep the raw version with the numeric fields left unset.
type ProjectVersion struct {
	ID            string     `json:"id"`
	ProjectID     string     `json:"project_id"`
	Version       string     `json:"version"`
	Major         *int       `json:"major"`
	Minor         *int       `json:"minor"`
	Patch         *int       `json:"patch"`
	Prerelease    *string    `json:"prerelease"`
	BuildMetadata *string    `json:"build_metadata"`
	Source        string     `json:"source"`
	IsLatest      bool       `json:"is_latest"`
	ReleaseURL    *string    `json:"release_url"`
	ReleaseDate   *time.Time `json:"release_date"`
	CreatedAt     time.Time  `json:"created_at"`
}

// MAJOR[.MINOR[.PATCH]][-PRERELEASE][+BUILD], with an optional leading v
var semverPattern = regexp.MustCompile(`^(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:-([0-9A-Za-z.-]+))?(?:\+([0-9A-Za-z.-]+))?$`)

// NewProjectVersion creates a ProjectVersion from a version string,
// parsing out semver components when the string allows it.
func NewProjectVersion(projectID, version, source string) *ProjectVersion {
	v := &ProjectVersion{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Version:   version,
		Source:    source,
	}

	trimmed := strings.TrimLeft(strings.TrimSpace(version), "vV")
	match := semverPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return v
	}

	v.Major = atoiPtr(match[1])
	if match[2] != "" {
		v.Minor = atoiPtr(match[2])
	} else {
		zero := 0
		v.Minor = &zero
	}
	if match[3] != "" {
		v.Patch = atoiPtr(match[3])
	} else {
		zero := 0
		v.Patch = &zero
	}
	if match[4] != "" {
		pre := match[4]
		v.Prerelease = &pre
	}
	if match[5] != "" {
		build := match[5]
		v.BuildMetadata = &build
	}

	return v
}

// Compare orders two versions by their parsed components. Unparsed
// versions sort below parsed ones; ties fall back to the raw string.
func (v *ProjectVersion) Compare(other *ProjectVersion) int {
	if v.Major == nil || other.Major == nil {
		switch {
		case v.Major != nil:
			return 1
		case other.Major != nil:
			return -1
		default:
			return strings.Compare(v.Version, other.Version)
		}
	}

	if c := intCompare(*v.Major, *other.Major); c != 0 {
		return c
	}
	if c := intCompare(derefOrZero(v.Minor), derefOrZero(other.Minor)); c != 0 {
		return c
	}
	if c := intCompare(derefOrZero(v.Patch), derefOrZero(other.Patch)); c != 0 {
		return c
	}

	// A prerelease sorts below the corresponding final version
	switch {
	case v.Prerelease == nil && other.Prerelease != nil:
		return 1
	case v.Prerelease != nil && other.Prerelease == nil:
		return -1
	case v.Prerelease != nil && other.Prerelease != nil:
		return strings.Compare(*v.Prerelease, *other.Prerelease)
	}
	return 0
}

func atoiPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func intCompare(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func derefOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
