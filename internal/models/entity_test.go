package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityNames(t *testing.T) {
	testCases := []struct {
		name string
		got  string
		want string
	}{
		{name: "Language lowercased", got: LanguageEntityName("Python"), want: "lang/python"},
		{name: "Language already lower", got: LanguageEntityName("go"), want: "lang/go"},
		{name: "Package lowercased", got: PackageEntityName("Django"), want: "pkg/django"},
		{name: "User lowercased", got: UserEntityName("TorvaldS"), want: "github/user/torvalds"},
		{name: "Branch plain", got: BranchEntityName("golang", "go", "master"), want: "golang/go/branch/master"},
		{name: "Branch slashes become dashes", got: BranchEntityName("golang", "go", "feature/new-parser"), want: "golang/go/branch/feature-new-parser"},
		{name: "Issue", got: IssueEntityName("golang", "go", 123), want: "golang/go/issue/123"},
		{name: "Pull request", got: PREntityName("golang", "go", 456), want: "golang/go/pr/456"},
		{name: "Version bare tag gets v", got: VersionEntityName("golang", "go", "1.2.3"), want: "golang/go/ver/v1.2.3"},
		{name: "Version keeps single v", got: VersionEntityName("golang", "go", "v1.2.3"), want: "golang/go/ver/v1.2.3"},
		{name: "Version uppercase V normalized", got: VersionEntityName("golang", "go", "V1.2.3"), want: "golang/go/ver/v1.2.3"},
		{name: "Doc", got: DocEntityName("golang", "go", "installation"), want: "golang/go/doc/installation"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
}

func TestNewProjectComponent(t *testing.T) {
	t.Run("Valid edge", func(t *testing.T) {
		component, err := NewProjectComponent("parent-id", "child-id", "")
		assert.NoError(t, err)
		assert.Equal(t, "component", component.RelationshipType)
	})

	t.Run("Self loop rejected", func(t *testing.T) {
		_, err := NewProjectComponent("same-id", "same-id", "component")
		assert.ErrorIs(t, err, ErrSelfComponent)
	})
}
