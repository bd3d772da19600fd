package manifest

import (
	"strings"

	"github.com/reposcope/reposcope/internal/models"
)

// ParseRequirements extracts dependencies from a requirements.txt. Lines
// that are not plain requirements (options, includes, URLs, editable
// installs) are skipped rather than mis-parsed.
func ParseRequirements(projectID, content string) ([]*models.ProjectDependency, error) {
	const source = "requirements.txt"
	var deps []*models.ProjectDependency

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if strings.Contains(line, "://") || strings.Contains(line, "@ ") {
			continue
		}
		// Trailing comments
		if i := strings.Index(line, " #"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if dep := fromRequirement(projectID, line, models.DepTypeRuntime, source); dep != nil {
			deps = append(deps, dep)
		}
	}

	return dedupe(deps), nil
}
