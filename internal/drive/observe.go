package drive

import (
	"context"
	"time"
)

// Status values reported to the Observer.
const (
	statusSuccess = "success"
	statusError   = "error"
)

// Observer receives telemetry about Drive API calls. Implementations must
// be safe for concurrent use. A nil Observer disables observation.
//
// The method set matches the instrumentation metrics recorder so it can be
// wired in without an adapter.
type Observer interface {
	RecordDriveOperation(ctx context.Context, operation, status string, duration time.Duration)
	RecordDriveRetry(ctx context.Context, operation string)
}

// observeOperation reports one finished API call to the observer, if any.
func (c *Client) observeOperation(ctx context.Context, operation string, start time.Time, err error) {
	if c.observer == nil {
		return
	}
	status := statusSuccess
	if err != nil {
		status = statusError
	}
	c.observer.RecordDriveOperation(ctx, operation, status, time.Since(start))
}

// observeRetry reports one retried API call to the observer, if any.
func (c *Client) observeRetry(ctx context.Context, operation string) func() {
	if c.observer == nil {
		return nil
	}
	return func() {
		c.observer.RecordDriveRetry(ctx, operation)
	}
}
