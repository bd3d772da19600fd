package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/reposcope/reposcope/internal/models"
)

type packageJSONFile struct {
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

// ParsePackageJSON extracts dependencies from a package.json
func ParsePackageJSON(projectID, content string) ([]*models.ProjectDependency, error) {
	var file packageJSONFile
	if err := json.Unmarshal([]byte(content), &file); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}

	const source = "package.json"
	var deps []*models.ProjectDependency
	sections := []struct {
		entries map[string]string
		depType string
	}{
		{file.Dependencies, models.DepTypeRuntime},
		{file.DevDependencies, models.DepTypeDev},
		{file.PeerDependencies, models.DepTypePeer},
		{file.OptionalDependencies, models.DepTypeOptional},
	}

	for _, section := range sections {
		for _, name := range sortedKeys(section.entries) {
			dep := models.NewProjectDependency(projectID, name, section.depType, source)
			if spec := section.entries[name]; spec != "" {
				version := spec
				dep.VersionSpec = &version
			}
			deps = append(deps, dep)
		}
	}

	return dedupe(deps), nil
}
