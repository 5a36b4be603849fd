package drive

import (
	"context"
	"errors"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/teemow/drive2md/internal/fault"
)

// retryDelay is the fixed pause before the single retry of a transient
// upstream failure.
const retryDelay = 500 * time.Millisecond

// mapAPIError classifies a Drive API error into the error taxonomy. It is
// called once, at the boundary where the remote call was made.
func mapAPIError(op, fileID string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fault.New(fault.Timeout, "%s for file %s timed out", op, fileID)
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusUnauthorized:
			return fault.New(fault.AuthError, "Drive rejected the access token")
		case gerr.Code == http.StatusForbidden:
			return fault.New(fault.PermissionDenied, "access to file %s is forbidden", fileID)
		case gerr.Code == http.StatusNotFound:
			return fault.New(fault.ReferenceNotFound, "file %s not found", fileID)
		case isTransientStatus(gerr.Code):
			return fault.New(fault.UpstreamUnavailable, "%s for file %s failed with status %d after retry", op, fileID, gerr.Code)
		default:
			return fault.Upstream(gerr.Code, "%s for file %s failed", op, fileID)
		}
	}

	// Transport-level failures (connection reset, DNS, ...) with no HTTP
	// status are treated as upstream unavailability.
	return fault.New(fault.UpstreamUnavailable, "%s for file %s failed: %v", op, fileID, err)
}

func isTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// isRetryable reports whether err warrants the single bounded retry:
// 429 and 5xx responses, plus transport errors that never produced a
// response. Context errors and all other HTTP statuses are surfaced
// immediately.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return isTransientStatus(gerr.Code)
	}
	return true
}

// withRetry runs fn and retries it exactly once after a fixed delay if the
// failure is transient. No other implicit retries exist anywhere in the
// pipeline. onRetry, when non-nil, is called before the second attempt.
func withRetry(ctx context.Context, fn func() error, onRetry func()) error {
	err := fn()
	if !isRetryable(err) {
		return err
	}

	select {
	case <-time.After(retryDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	if onRetry != nil {
		onRetry()
	}

	return fn()
}
