package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSections(t *testing.T) {
	content := `Intro text before any heading.

# Demo Project

A small demo.

## Installation

Run the installer.

## Usage

### Advanced usage

Subsections stay inside their parent.

## Installation

Second install section.
`

	sections := SplitSections(content)
	require.Len(t, sections, 5)

	assert.Equal(t, "overview", sections[0].Slug)
	assert.Equal(t, "Overview", sections[0].Title)
	assert.Contains(t, sections[0].Content, "Intro text")

	assert.Equal(t, "demo-project", sections[1].Slug)
	assert.Equal(t, 1, sections[1].Level)

	assert.Equal(t, "installation", sections[2].Slug)
	assert.Equal(t, "Installation", sections[2].Title)
	assert.Equal(t, 2, sections[2].Level)

	// Level-3 headings do not split; they stay in the usage section
	assert.Equal(t, "usage", sections[3].Slug)
	assert.Contains(t, sections[3].Content, "### Advanced usage")

	// Duplicate headings get suffixed slugs
	assert.Equal(t, "installation-2", sections[4].Slug)
}

func TestSplitSectionsIgnoresCodeFences(t *testing.T) {
	content := "# Title\n\n```\n# not a heading\n```\n\nAfter the fence.\n"

	sections := SplitSections(content)
	require.Len(t, sections, 1)
	assert.Contains(t, sections[0].Content, "# not a heading")
}

func TestSplitSectionsEmpty(t *testing.T) {
	assert.Empty(t, SplitSections(""))
}

func TestSlugify(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{"Installation", "installation"},
		{"Getting Started!", "getting-started"},
		{"API & Usage", "api-usage"},
		{"  spaced  out  ", "spaced-out"},
		{"!!!", "section"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Slugify(tc.input))
	}
}

func TestHeadingMarkupStripped(t *testing.T) {
	sections := SplitSections("# [Project](https://example.com) `v2`\n\nBody.\n")
	require.Len(t, sections, 1)
	assert.Equal(t, "Project v2", sections[0].Title)
	assert.Equal(t, "project-v2", sections[0].Slug)
}
