package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/reposcope/reposcope/internal/models"
)

// pyprojectFile covers the dependency-bearing parts of pyproject.toml:
// PEP 621 [project], PEP 735 [dependency-groups] and the poetry table.
type pyprojectFile struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	DependencyGroups map[string][]string `toml:"dependency-groups"`
	Tool             struct {
		Poetry struct {
			Dependencies map[string]interface{} `toml:"dependencies"`
			Group        map[string]struct {
				Dependencies map[string]interface{} `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
		UV struct {
			DevDependencies []string `toml:"dev-dependencies"`
		} `toml:"uv"`
	} `toml:"tool"`
}

// ParsePyproject extracts dependencies from a pyproject.toml
func ParsePyproject(projectID, content string) ([]*models.ProjectDependency, error) {
	var file pyprojectFile
	if err := toml.Unmarshal([]byte(content), &file); err != nil {
		return nil, fmt.Errorf("failed to parse pyproject.toml: %w", err)
	}

	const source = "pyproject.toml"
	var deps []*models.ProjectDependency

	for _, spec := range file.Project.Dependencies {
		if dep := fromRequirement(projectID, spec, models.DepTypeRuntime, source); dep != nil {
			deps = append(deps, dep)
		}
	}
	for _, group := range sortedKeys(file.Project.OptionalDependencies) {
		for _, spec := range file.Project.OptionalDependencies[group] {
			if dep := fromRequirement(projectID, spec, models.DepTypeOptional, source); dep != nil {
				deps = append(deps, dep)
			}
		}
	}
	for _, group := range sortedKeys(file.DependencyGroups) {
		for _, spec := range file.DependencyGroups[group] {
			if dep := fromRequirement(projectID, spec, models.DepTypeDev, source); dep != nil {
				deps = append(deps, dep)
			}
		}
	}
	for _, spec := range file.Tool.UV.DevDependencies {
		if dep := fromRequirement(projectID, spec, models.DepTypeDev, source); dep != nil {
			deps = append(deps, dep)
		}
	}

	for _, name := range sortedKeys(file.Tool.Poetry.Dependencies) {
		if strings.EqualFold(name, "python") {
			continue
		}
		dep := models.NewProjectDependency(projectID, normalizePackageName(name), models.DepTypeRuntime, source)
		if spec := poetrySpec(file.Tool.Poetry.Dependencies[name]); spec != "" {
			dep.VersionSpec = &spec
		}
		deps = append(deps, dep)
	}
	for _, group := range sortedKeys(file.Tool.Poetry.Group) {
		for _, name := range sortedKeys(file.Tool.Poetry.Group[group].Dependencies) {
			dep := models.NewProjectDependency(projectID, normalizePackageName(name), models.DepTypeDev, source)
			if spec := poetrySpec(file.Tool.Poetry.Group[group].Dependencies[name]); spec != "" {
				dep.VersionSpec = &spec
			}
			deps = append(deps, dep)
		}
	}

	return dedupe(deps), nil
}

// poetrySpec renders a poetry dependency value, which is either a bare
// version string or a table with a version key
func poetrySpec(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]interface{}:
		if version, ok := v["version"].(string); ok {
			return version
		}
	}
	return ""
}

// fromRequirement splits a PEP 508 requirement into name and version spec
func fromRequirement(projectID, requirement, depType, source string) *models.ProjectDependency {
	spec := strings.TrimSpace(requirement)
	if spec == "" || strings.HasPrefix(spec, "#") {
		return nil
	}

	// Environment markers are not relevant to the declared name
	if i := strings.Index(spec, ";"); i >= 0 {
		spec = strings.TrimSpace(spec[:i])
	}

	name := spec
	version := ""
	if i := strings.IndexAny(spec, "><=!~ "); i >= 0 {
		name = strings.TrimSpace(spec[:i])
		version = strings.TrimSpace(spec[i:])
	}
	// Extras belong to the name portion: requests[security]
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return nil
	}

	dep := models.NewProjectDependency(projectID, normalizePackageName(name), depType, source)
	if version != "" {
		dep.VersionSpec = &version
	}
	return dep
}

// normalizePackageName lowercases and collapses separators the way PyPI
// treats names as equivalent
func normalizePackageName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	lower = strings.ReplaceAll(lower, "_", "-")
	lower = strings.ReplaceAll(lower, ".", "-")
	return lower
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
