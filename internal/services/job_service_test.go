package services

import (
	"context"
	"testing"

	gogithub "github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/internal/models"
	"github.com/reposcope/reposcope/internal/repositories"
)

func newJobFixture(t *testing.T) (*syncFixture, *JobService) {
	t.Helper()
	f := newSyncFixture(t)
	jobService := NewJobService(repositories.NewJobRepository(f.db), f.service)
	return f, jobService
}

func TestJobEnqueueAndClaim(t *testing.T) {
	_, jobs := newJobFixture(t)

	job, err := jobs.Enqueue(models.JobTypeSyncRepo, "acme/widget", models.SyncOptions{Force: true})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, job.Status)
	require.NotNil(t, job.Options)
	assert.Contains(t, *job.Options, `"force":true`)

	t.Run("Unknown job type rejected", func(t *testing.T) {
		_, err := jobs.Enqueue("sync_planet", "mars", models.SyncOptions{})
		assert.Error(t, err)
	})

	t.Run("Empty target rejected", func(t *testing.T) {
		_, err := jobs.Enqueue(models.JobTypeSyncRepo, "", models.SyncOptions{})
		assert.Error(t, err)
	})

	t.Run("Claim marks in-progress", func(t *testing.T) {
		claimed, err := jobs.ClaimNext(models.JobTypeSyncRepo)
		require.NoError(t, err)
		require.NotNil(t, claimed)
		assert.Equal(t, job.ID, claimed.ID)
		assert.Equal(t, models.JobStatusInProgress, claimed.Status)
		assert.NotNil(t, claimed.StartedAt)
	})

	t.Run("Claim on empty queue returns nil", func(t *testing.T) {
		claimed, err := jobs.ClaimNext(models.JobTypeSyncRepo)
		require.NoError(t, err)
		assert.Nil(t, claimed)
	})
}

func TestJobExecuteSyncRepo(t *testing.T) {
	f, jobs := newJobFixture(t)
	f.fetcher.repos["acme/widget"] = remoteRepo("acme/widget", 1)

	job, err := jobs.Enqueue(models.JobTypeSyncRepo, "acme/widget", models.SyncOptions{})
	require.NoError(t, err)
	claimed, err := jobs.ClaimNext(models.JobTypeSyncRepo)
	require.NoError(t, err)

	require.NoError(t, jobs.Execute(context.Background(), claimed))

	got, err := jobs.GetByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)

	_, err = repositories.NewProjectRepository(f.db).GetByName("acme/widget")
	assert.NoError(t, err)
}

func TestJobExecuteRecordsFailure(t *testing.T) {
	_, jobs := newJobFixture(t)

	job, err := jobs.Enqueue(models.JobTypeSyncRepo, "acme/missing", models.SyncOptions{})
	require.NoError(t, err)
	claimed, err := jobs.ClaimNext(models.JobTypeSyncRepo)
	require.NoError(t, err)

	require.NoError(t, jobs.Execute(context.Background(), claimed))

	got, err := jobs.GetByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Contains(t, *got.ErrorMessage, "not found")
}

func TestJobExecuteSyncUser(t *testing.T) {
	f, jobs := newJobFixture(t)
	remote := remoteRepo("alice/app", 1)
	f.fetcher.listing = []*gogithub.Repository{remote}
	f.fetcher.repos["alice/app"] = remote

	_, err := jobs.Enqueue(models.JobTypeSyncUser, "alice", models.SyncOptions{})
	require.NoError(t, err)
	claimed, err := jobs.ClaimNext(models.JobTypeSyncUser)
	require.NoError(t, err)

	require.NoError(t, jobs.Execute(context.Background(), claimed))

	got, err := jobs.GetByID(claimed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, got.Status)
}
