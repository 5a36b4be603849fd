package instrumentation

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToolInvocationComplete(t *testing.T) {
	ti := NewToolInvocation("convert_drive_url")
	time.Sleep(time.Millisecond)
	ti.CompleteSuccess()

	assert.True(t, ti.Success)
	assert.Equal(t, StatusSuccess, ti.Status())
	assert.Greater(t, ti.Duration, time.Duration(0))
	assert.Empty(t, ti.Error)
}

func TestToolInvocationCompleteWithError(t *testing.T) {
	ti := NewToolInvocation("convert_drive_url").
		WithFamily("document").
		WithErrorKind("permission_denied").
		CompleteWithError(errors.New("access to file f1 is forbidden"))

	assert.False(t, ti.Success)
	assert.Equal(t, StatusError, ti.Status())
	assert.Equal(t, "access to file f1 is forbidden", ti.Error)
}

func TestAuditLoggerLogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	audit := NewAuditLogger(logger)

	audit.LogToolInvocation(NewToolInvocation("convert_drive_url").
		WithSourceFormat("text/markdown").
		CompleteSuccess())

	out := buf.String()
	assert.Contains(t, out, "tool_executed")
	assert.Contains(t, out, "tool=convert_drive_url")
	assert.Contains(t, out, "source_format=text/markdown")

	buf.Reset()
	audit.LogToolInvocation(NewToolInvocation("convert_drive_url").
		WithErrorKind("timeout").
		CompleteWithError(errors.New("deadline exceeded")))

	out = buf.String()
	assert.Contains(t, out, "tool_failed")
	assert.Contains(t, out, "error_kind=timeout")
}

func TestAuditLoggerDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	audit := NewAuditLogger(logger)
	audit.SetEnabled(false)

	audit.LogToolInvocation(NewToolInvocation("convert_drive_url").CompleteSuccess())

	assert.Empty(t, buf.String())
}
