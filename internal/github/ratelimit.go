package github

import (
	"sync"
	"time"

	gogithub "github.com/google/go-github/v57/github"
)

// RateLimitStatus is a point-in-time snapshot of the call budget
type RateLimitStatus struct {
	Limit     int        `json:"limit"`
	Remaining int        `json:"remaining"`
	ResetAt   *time.Time `json:"reset_at"`
}

// RateLimitTracker holds the remaining-call budget reported by the API.
// One tracker instance is shared by every component that makes calls so
// the exhaustion check is globally consistent. It never blocks; waiting
// out the reset window is the orchestrator's decision.
type RateLimitTracker struct {
	mu        sync.Mutex
	limit     int
	remaining int
	resetAt   time.Time
}

// NewRateLimitTracker returns a tracker primed with the unauthenticated
// default budget. The first real response overwrites it.
func NewRateLimitTracker() *RateLimitTracker {
	return &RateLimitTracker{limit: 60, remaining: 60}
}

// UpdateFromResponse overwrites the tracker state from response metadata.
// Last write wins: the API is the source of truth, and even error
// responses carry rate headers.
func (t *RateLimitTracker) UpdateFromResponse(resp *gogithub.Response) {
	if resp == nil {
		return
	}
	t.Update(resp.Rate)
}

// Update overwrites the tracker state from a parsed rate value
func (t *RateLimitTracker) Update(rate gogithub.Rate) {
	if rate.Limit == 0 && rate.Reset.Time.IsZero() {
		// Response carried no rate headers
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.limit = rate.Limit
	t.remaining = rate.Remaining
	t.resetAt = rate.Reset.Time.UTC()
}

// IsExhausted reports whether the budget has run out
func (t *RateLimitTracker) IsExhausted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining <= 0
}

// RemainingBudget returns the number of calls left
func (t *RateLimitTracker) RemainingBudget() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// SecondsUntilReset returns how long until the budget resets, zero if the
// reset time is unknown or already past
func (t *RateLimitTracker) SecondsUntilReset(now time.Time) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.resetAt.IsZero() {
		return 0
	}
	if d := t.resetAt.Sub(now); d > 0 {
		return d.Seconds()
	}
	return 0
}

// Status returns a snapshot for callers that display the budget
func (t *RateLimitTracker) Status() RateLimitStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	status := RateLimitStatus{Limit: t.limit, Remaining: t.remaining}
	if !t.resetAt.IsZero() {
		reset := t.resetAt
		status.ResetAt = &reset
	}
	return status
}

// ResetTime returns the known reset time, zero when unknown
func (t *RateLimitTracker) ResetTime() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resetAt
}
