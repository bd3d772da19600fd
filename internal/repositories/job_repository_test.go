package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/internal/models"
)

func TestJobRepositoryQueue(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepository(db)

	first := models.NewJob(models.JobTypeSyncRepo, "acme/widget")
	second := models.NewJob(models.JobTypeSyncRepo, "acme/gadget")
	userJob := models.NewJob(models.JobTypeSyncUser, "alice")
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))
	require.NoError(t, repo.Create(userJob))

	t.Run("GetNextPending is FIFO per type", func(t *testing.T) {
		next, err := repo.GetNextPending(models.JobTypeSyncRepo)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, first.ID, next.ID)
	})

	t.Run("In-progress jobs are not claimed again", func(t *testing.T) {
		first.MarkStarted()
		require.NoError(t, repo.Update(first))

		next, err := repo.GetNextPending(models.JobTypeSyncRepo)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, second.ID, next.ID)
	})

	t.Run("Empty queue returns nil", func(t *testing.T) {
		next, err := repo.GetNextPending(models.JobTypeSyncOrg)
		require.NoError(t, err)
		assert.Nil(t, next)
	})

	t.Run("Failed jobs keep the error message", func(t *testing.T) {
		userJob.MarkFailed()
		userJob.SetError("user not found")
		require.NoError(t, repo.Update(userJob))

		got, err := repo.GetByID(userJob.ID)
		require.NoError(t, err)
		assert.Equal(t, models.JobStatusFailed, got.Status)
		require.NotNil(t, got.ErrorMessage)
		assert.Equal(t, "user not found", *got.ErrorMessage)
		assert.NotNil(t, got.CompletedAt)
	})

	t.Run("List newest first", func(t *testing.T) {
		jobs, err := repo.List(0)
		require.NoError(t, err)
		assert.Len(t, jobs, 3)

		jobs, err = repo.List(2)
		require.NoError(t, err)
		assert.Len(t, jobs, 2)
	})
}
