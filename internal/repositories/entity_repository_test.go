package repositories

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/internal/models"
)

func TestEntityRepositoryUpsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntityRepository(db)

	entity := models.NewEntity("lang/go", models.ScopeGlobal, "language")
	display := "Go"
	entity.DisplayName = &display
	require.NoError(t, repo.Upsert(entity))
	storedID := entity.ID

	t.Run("Upsert by name keeps stored ID", func(t *testing.T) {
		again := models.NewEntity("lang/go", models.ScopeGlobal, "language")
		updated := "Golang"
		again.DisplayName = &updated
		require.NoError(t, repo.Upsert(again))
		assert.Equal(t, storedID, again.ID)

		got, err := repo.GetByName("lang/go")
		require.NoError(t, err)
		assert.Equal(t, "Golang", *got.DisplayName)

		count, err := repo.Count()
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("GetByName miss", func(t *testing.T) {
		_, err := repo.GetByName("lang/cobol")
		assert.Equal(t, sql.ErrNoRows, err)
	})

	t.Run("List filters by scope and type", func(t *testing.T) {
		user := models.NewEntity("github/user/alice", models.ScopeApp, "user")
		require.NoError(t, repo.Upsert(user))

		entities, err := repo.List(models.ScopeApp, "")
		require.NoError(t, err)
		require.Len(t, entities, 1)
		assert.Equal(t, "github/user/alice", entities[0].Name)

		entities, err = repo.List("", "language")
		require.NoError(t, err)
		assert.Len(t, entities, 1)
	})

	t.Run("DeleteAll clears the layer", func(t *testing.T) {
		require.NoError(t, repo.DeleteAll())
		count, err := repo.Count()
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestLinkRepositoryUpsert(t *testing.T) {
	db := newTestDB(t)
	entityRepo := NewEntityRepository(db)
	linkRepo := NewLinkRepository(db)

	project := models.NewEntity("acme/widget", models.ScopeRepo, "project")
	lang := models.NewEntity("lang/go", models.ScopeGlobal, "language")
	require.NoError(t, entityRepo.Upsert(project))
	require.NoError(t, entityRepo.Upsert(lang))

	link := models.NewLink(project.ID, lang.ID, models.LinkTypeLanguage, 0)
	require.NoError(t, linkRepo.Upsert(link))

	t.Run("Duplicate key updates position only", func(t *testing.T) {
		dup := models.NewLink(project.ID, lang.ID, models.LinkTypeLanguage, 3)
		require.NoError(t, linkRepo.Upsert(dup))

		count, err := linkRepo.Count()
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		links, err := linkRepo.GetBySource(project.ID)
		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, 3, links[0].Position)
	})

	t.Run("Incoming links by target", func(t *testing.T) {
		links, err := linkRepo.GetByTarget(lang.ID)
		require.NoError(t, err)
		assert.Len(t, links, 1)
	})

	t.Run("DeleteBySource", func(t *testing.T) {
		require.NoError(t, linkRepo.DeleteBySource(project.ID))
		count, err := linkRepo.Count()
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}
