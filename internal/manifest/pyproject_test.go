package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/internal/models"
)

func TestParsePyprojectPEP621(t *testing.T) {
	content := `
[project]
name = "demo"
dependencies = [
    "requests>=2.31",
    "click",
    "typing_extensions; python_version < '3.11'",
    "uvicorn[standard]>=0.23",
]

[project.optional-dependencies]
docs = ["mkdocs==1.5"]

[dependency-groups]
dev = ["pytest>=7", "ruff"]
`

	deps, err := ParsePyproject("p1", content)
	require.NoError(t, err)

	byName := indexDeps(deps)
	require.Len(t, deps, 7)

	assert.Equal(t, models.DepTypeRuntime, byName["requests"].DepType)
	assert.Equal(t, ">=2.31", *byName["requests"].VersionSpec)
	assert.Nil(t, byName["click"].VersionSpec)
	// Marker stripped, name normalized
	assert.Equal(t, "typing-extensions", byName["typing-extensions"].Name)
	// Extras stripped from the name
	assert.Equal(t, ">=0.23", *byName["uvicorn"].VersionSpec)
	assert.Equal(t, models.DepTypeOptional, byName["mkdocs"].DepType)
	assert.Equal(t, models.DepTypeDev, byName["pytest"].DepType)
	assert.Equal(t, models.DepTypeDev, byName["ruff"].DepType)
	assert.Equal(t, "pyproject.toml", byName["requests"].Source)
}

func TestParsePyprojectPoetry(t *testing.T) {
	content := `
[tool.poetry]
name = "demo"

[tool.poetry.dependencies]
python = "^3.11"
django = "^4.2"
redis = { version = "^5.0", extras = ["hiredis"] }

[tool.poetry.group.dev.dependencies]
pytest = "^7.4"
`

	deps, err := ParsePyproject("p1", content)
	require.NoError(t, err)

	byName := indexDeps(deps)
	// The python constraint is an interpreter requirement, not a package
	assert.NotContains(t, byName, "python")
	assert.Equal(t, "^4.2", *byName["django"].VersionSpec)
	assert.Equal(t, "^5.0", *byName["redis"].VersionSpec)
	assert.Equal(t, models.DepTypeDev, byName["pytest"].DepType)
}

func TestParsePyprojectInvalid(t *testing.T) {
	_, err := ParsePyproject("p1", "not [valid toml")
	assert.Error(t, err)
}

func TestParsePyprojectDedupes(t *testing.T) {
	content := `
[project]
dependencies = ["requests>=2", "requests>=2"]
`
	deps, err := ParsePyproject("p1", content)
	require.NoError(t, err)
	assert.Len(t, deps, 1)
}

func indexDeps(deps []*models.ProjectDependency) map[string]*models.ProjectDependency {
	byName := make(map[string]*models.ProjectDependency, len(deps))
	for _, dep := range deps {
		byName[dep.Name] = dep
	}
	return byName
}
