package github

import (
	"testing"
	"time"

	gogithub "github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitTracker(t *testing.T) {
	t.Run("Primed with unauthenticated budget", func(t *testing.T) {
		tracker := NewRateLimitTracker()

		assert.False(t, tracker.IsExhausted())
		assert.Equal(t, 60, tracker.RemainingBudget())
	})

	t.Run("Update overwrites state", func(t *testing.T) {
		tracker := NewRateLimitTracker()
		reset := time.Now().Add(30 * time.Minute)

		tracker.Update(gogithub.Rate{Limit: 5000, Remaining: 4000, Reset: gogithub.Timestamp{Time: reset}})

		assert.Equal(t, 4000, tracker.RemainingBudget())
		assert.False(t, tracker.IsExhausted())
		status := tracker.Status()
		assert.Equal(t, 5000, status.Limit)
		assert.NotNil(t, status.ResetAt)
	})

	t.Run("Exhaustion at zero remaining", func(t *testing.T) {
		tracker := NewRateLimitTracker()
		tracker.Update(gogithub.Rate{Limit: 60, Remaining: 0, Reset: gogithub.Timestamp{Time: time.Now().Add(time.Hour)}})

		assert.True(t, tracker.IsExhausted())
	})

	t.Run("Empty rate headers ignored", func(t *testing.T) {
		tracker := NewRateLimitTracker()
		tracker.Update(gogithub.Rate{Limit: 100, Remaining: 50, Reset: gogithub.Timestamp{Time: time.Now()}})

		tracker.Update(gogithub.Rate{})

		assert.Equal(t, 50, tracker.RemainingBudget())
	})

	t.Run("Nil response ignored", func(t *testing.T) {
		tracker := NewRateLimitTracker()
		tracker.UpdateFromResponse(nil)

		assert.Equal(t, 60, tracker.RemainingBudget())
	})

	t.Run("Seconds until reset", func(t *testing.T) {
		tracker := NewRateLimitTracker()
		now := time.Now()
		tracker.Update(gogithub.Rate{Limit: 60, Remaining: 0, Reset: gogithub.Timestamp{Time: now.Add(90 * time.Second)}})

		assert.InDelta(t, 90, tracker.SecondsUntilReset(now), 1)
		assert.Zero(t, tracker.SecondsUntilReset(now.Add(2*time.Minute)))
	})
}
