// Package common provides shared helpers for MCP tool registration,
// primarily the instrumentation wrapper that records metrics and audit log
// entries around tool handlers.
package common
