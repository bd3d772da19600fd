package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	gogithub "github.com/google/go-github/v57/github"
)

// NotFoundError means the requested resource does not exist. It is fatal
// for the required repository-metadata fetch and ignorable for optional
// sub-fetches (README, manifests, ...).
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// AuthError means the credential was rejected (401/403)
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (%d): %s", e.StatusCode, e.Message)
}

// RateLimitedError means the call budget is exhausted. The batch loop
// stops on this and reports a partial summary.
type RateLimitedError struct {
	ResetAt time.Time
}

func (e *RateLimitedError) Error() string {
	if e.ResetAt.IsZero() {
		return "rate limit exhausted"
	}
	return fmt.Sprintf("rate limit exhausted, resets at %s", e.ResetAt.UTC().Format(time.RFC3339))
}

// TransientError wraps network failures, timeouts and 5xx responses. The
// caller may retry by re-invoking the sync; nothing retries internally.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// ValidationError means the input was malformed and no call was made
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// classifyError maps a go-github error to the domain taxonomy. resource
// names what was being fetched, for NotFoundError messages.
func classifyError(err error, resource string) error {
	if err == nil {
		return nil
	}

	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return &RateLimitedError{ResetAt: rateErr.Rate.Reset.Time}
	}
	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &RateLimitedError{}
	}

	var respErr *gogithub.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch code := respErr.Response.StatusCode; {
		case code == 404:
			return &NotFoundError{Resource: resource}
		case code == 401 || code == 403:
			return &AuthError{StatusCode: code, Message: respErr.Message}
		case code >= 500:
			return &TransientError{Err: err}
		}
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientError{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &TransientError{Err: err}
	}

	return &TransientError{Err: err}
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsRateLimited reports whether err is a RateLimitedError
func IsRateLimited(err error) bool {
	var rl *RateLimitedError
	return errors.As(err, &rl)
}
