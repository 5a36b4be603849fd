package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrMethod       = "method"
	attrPath         = "path"
	attrStatus       = "status"
	attrOperation    = "operation"
	attrTool         = "tool"
	attrSourceFormat = "source_format"
	attrErrorKind    = "error_kind"
)

// Metrics provides methods for recording observability metrics.
// The zero value is a no-op recorder.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Drive API metrics
	driveOperationsTotal   metric.Int64Counter
	driveOperationDuration metric.Float64Histogram
	driveRetriesTotal      metric.Int64Counter

	// MCP tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// Conversion metrics
	conversionsTotal        metric.Int64Counter
	conversionFailuresTotal metric.Int64Counter
	conversionBytes         metric.Int64Histogram
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.driveOperationsTotal, err = meter.Int64Counter(
		"drive_api_operations_total",
		metric.WithDescription("Total number of Drive API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive_api_operations_total counter: %w", err)
	}

	m.driveOperationDuration, err = meter.Float64Histogram(
		"drive_api_operation_duration_seconds",
		metric.WithDescription("Drive API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive_api_operation_duration_seconds histogram: %w", err)
	}

	m.driveRetriesTotal, err = meter.Int64Counter(
		"drive_api_retries_total",
		metric.WithDescription("Total number of retried Drive API calls"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive_api_retries_total counter: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	m.conversionsTotal, err = meter.Int64Counter(
		"conversions_total",
		metric.WithDescription("Total number of completed URL-to-Markdown conversions"),
		metric.WithUnit("{conversion}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversions_total counter: %w", err)
	}

	m.conversionFailuresTotal, err = meter.Int64Counter(
		"conversion_failures_total",
		metric.WithDescription("Total number of failed conversions by error kind"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversion_failures_total counter: %w", err)
	}

	m.conversionBytes, err = meter.Int64Histogram(
		"conversion_markdown_bytes",
		metric.WithDescription("Size of the produced Markdown in bytes"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(1024, 10240, 102400, 1048576, 10485760),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversion_markdown_bytes histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordDriveOperation records one Drive API call.
//
// Parameters:
//   - operation: One of "metadata", "export", "download"
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the call
func (m *Metrics) RecordDriveOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m.driveOperationsTotal == nil || m.driveOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.driveOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.driveOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordDriveRetry records one retried Drive API call.
func (m *Metrics) RecordDriveRetry(ctx context.Context, operation string) {
	if m.driveRetriesTotal == nil {
		return // Instrumentation not initialized
	}

	m.driveRetriesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrOperation, operation),
	))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordConversion records one completed conversion with the format the
// content was delivered in and the size of the produced Markdown.
func (m *Metrics) RecordConversion(ctx context.Context, sourceFormat string, markdownBytes int) {
	if m.conversionsTotal == nil || m.conversionBytes == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrSourceFormat, sourceFormat),
	}

	m.conversionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.conversionBytes.Record(ctx, int64(markdownBytes), metric.WithAttributes(attrs...))
}

// RecordConversionFailure records one failed conversion by its error kind.
// Error kinds form a small closed set, so the label stays low-cardinality.
func (m *Metrics) RecordConversionFailure(ctx context.Context, errorKind string) {
	if m.conversionFailuresTotal == nil {
		return // Instrumentation not initialized
	}

	m.conversionFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrErrorKind, errorKind),
	))
}
