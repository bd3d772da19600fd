package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	gogithub "github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
)

func errorResponse(status int) *gogithub.ErrorResponse {
	return &gogithub.ErrorResponse{
		Response: &http.Response{StatusCode: status},
		Message:  http.StatusText(status),
	}
}

func TestClassifyError(t *testing.T) {
	t.Run("Nil stays nil", func(t *testing.T) {
		assert.NoError(t, classifyError(nil, "repository a/b"))
	})

	t.Run("404 becomes NotFoundError", func(t *testing.T) {
		err := classifyError(errorResponse(404), "repository a/b")

		assert.True(t, IsNotFound(err))
		assert.Contains(t, err.Error(), "repository a/b")
	})

	t.Run("401 becomes AuthError", func(t *testing.T) {
		err := classifyError(errorResponse(401), "repository a/b")

		var authErr *AuthError
		assert.True(t, errors.As(err, &authErr))
		assert.Equal(t, 401, authErr.StatusCode)
	})

	t.Run("403 becomes AuthError", func(t *testing.T) {
		err := classifyError(errorResponse(403), "repository a/b")

		var authErr *AuthError
		assert.True(t, errors.As(err, &authErr))
	})

	t.Run("500 becomes TransientError", func(t *testing.T) {
		err := classifyError(errorResponse(502), "repository a/b")

		var transient *TransientError
		assert.True(t, errors.As(err, &transient))
	})

	t.Run("RateLimitError carries reset time", func(t *testing.T) {
		reset := time.Now().Add(time.Hour)
		err := classifyError(&gogithub.RateLimitError{
			Rate: gogithub.Rate{Reset: gogithub.Timestamp{Time: reset}},
		}, "repository a/b")

		assert.True(t, IsRateLimited(err))
		var rateErr *RateLimitedError
		assert.True(t, errors.As(err, &rateErr))
		assert.Equal(t, reset.Unix(), rateErr.ResetAt.Unix())
	})

	t.Run("Abuse rate limit becomes RateLimitedError", func(t *testing.T) {
		err := classifyError(&gogithub.AbuseRateLimitError{}, "repository a/b")

		assert.True(t, IsRateLimited(err))
	})

	t.Run("Deadline becomes TransientError", func(t *testing.T) {
		err := classifyError(fmt.Errorf("call failed: %w", context.DeadlineExceeded), "repository a/b")

		var transient *TransientError
		assert.True(t, errors.As(err, &transient))
	})

	t.Run("Unknown becomes TransientError", func(t *testing.T) {
		err := classifyError(errors.New("connection reset"), "repository a/b")

		var transient *TransientError
		assert.True(t, errors.As(err, &transient))
	})
}
