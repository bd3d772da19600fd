package repositories

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/internal/models"
)

func TestProjectRepositoryCRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewProjectRepository(db)

	project := models.NewProject("golang/go")
	desc := "The Go programming language"
	lang := "Go"
	project.Description = &desc
	project.PrimaryLanguage = &lang
	project.Stars = 120000

	require.NoError(t, repo.Create(project))

	t.Run("GetByName", func(t *testing.T) {
		got, err := repo.GetByName("golang/go")
		require.NoError(t, err)
		assert.Equal(t, project.ID, got.ID)
		assert.Equal(t, "The Go programming language", *got.Description)
		assert.Equal(t, 120000, got.Stars)
	})

	t.Run("GetByName miss", func(t *testing.T) {
		_, err := repo.GetByName("nobody/nothing")
		assert.Equal(t, sql.ErrNoRows, err)
	})

	t.Run("Duplicate name rejected", func(t *testing.T) {
		dup := models.NewProject("golang/go")
		assert.Error(t, repo.Create(dup))
	})

	t.Run("Update", func(t *testing.T) {
		project.Stars = 130000
		require.NoError(t, repo.Update(project))

		got, err := repo.GetByName("golang/go")
		require.NoError(t, err)
		assert.Equal(t, 130000, got.Stars)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(project.ID))
		_, err := repo.GetByName("golang/go")
		assert.Equal(t, sql.ErrNoRows, err)

		assert.Equal(t, sql.ErrNoRows, repo.Delete(project.ID))
	})
}

func TestProjectRepositoryList(t *testing.T) {
	db := newTestDB(t)
	repo := NewProjectRepository(db)

	goLang := "Go"
	pyLang := "Python"

	first := models.NewProject("a/one")
	first.PrimaryLanguage = &goLang
	second := models.NewProject("b/two")
	second.PrimaryLanguage = &pyLang
	third := models.NewProject("c/three")
	third.PrimaryLanguage = &goLang
	third.IsFork = true

	for _, p := range []*models.Project{first, second, third} {
		require.NoError(t, repo.Create(p))
	}

	t.Run("Unfiltered ordered by name", func(t *testing.T) {
		projects, err := repo.List(ProjectFilter{})
		require.NoError(t, err)
		require.Len(t, projects, 3)
		assert.Equal(t, "a/one", projects[0].Name)
		assert.Equal(t, "c/three", projects[2].Name)
	})

	t.Run("Language filter", func(t *testing.T) {
		projects, err := repo.List(ProjectFilter{Language: "Go"})
		require.NoError(t, err)
		assert.Len(t, projects, 2)
	})

	t.Run("Skip forks", func(t *testing.T) {
		projects, err := repo.List(ProjectFilter{SkipForks: true})
		require.NoError(t, err)
		assert.Len(t, projects, 2)
	})

	t.Run("Limit", func(t *testing.T) {
		projects, err := repo.List(ProjectFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, projects, 1)
	})

	t.Run("Count", func(t *testing.T) {
		count, err := repo.Count()
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})
}
