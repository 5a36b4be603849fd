// Package instrumentation provides OpenTelemetry metrics and tracing for
// drive2md.
//
// The Provider wires a meter provider and a tracer provider based on
// environment-driven configuration. Metrics default to a Prometheus
// exporter served by the metrics HTTP server; tracing is off unless an
// exporter is configured.
//
// Metric labels are deliberately low-cardinality: tool name, Drive
// operation, status and error kind. File IDs and tokens never appear in
// metrics or spans.
package instrumentation
