// Package manifest extracts declared dependencies from the manifest files
// found at a repository root.
package manifest

import (
	"github.com/reposcope/reposcope/internal/models"
)

// ParseFunc turns one manifest file's content into dependency rows
type ParseFunc func(projectID, content string) ([]*models.ProjectDependency, error)

// ManifestFile names one supported manifest and its parser
type ManifestFile struct {
	Filename string
	Parse    ParseFunc
}

// SupportedManifests lists the manifest files probed during a sync, in
// probe order. Each costs one API call, so the list stays short.
var SupportedManifests = []ManifestFile{
	{Filename: "pyproject.toml", Parse: ParsePyproject},
	{Filename: "package.json", Parse: ParsePackageJSON},
	{Filename: "requirements.txt", Parse: ParseRequirements},
}

// dedupe keeps the first row per (source, name) pair
func dedupe(deps []*models.ProjectDependency) []*models.ProjectDependency {
	type key struct{ source, name string }
	seen := make(map[key]bool, len(deps))
	out := make([]*models.ProjectDependency, 0, len(deps))
	for _, dep := range deps {
		k := key{dep.Source, dep.Name}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, dep)
	}
	return out
}
