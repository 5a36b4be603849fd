// Package logging provides structured logging utilities for drive2md.
//
// It centralizes attribute naming so every package logs the same keys, and
// it provides sanitizers for values that must never appear in logs.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithTool(slog.Default(), "convert_drive_url")
//	logger.Info("conversion completed",
//	    logging.Status(logging.StatusSuccess))
//
// # Security Considerations
//
// Bearer tokens forwarded by the upstream proxy must never be logged or
// persisted. Use SanitizeToken when a log line needs to acknowledge that a
// token was present.
package logging
