// Package convert orchestrates one Drive-URL-to-Markdown invocation:
// URL resolution, credential wrapping, metadata fetch, export planning,
// bounded retrieval and Markdown normalization.
//
// Each invocation runs independently end-to-end; the only state shared
// across invocations is immutable configuration. The first failing stage
// aborts the pipeline and its error kind is reported to the caller.
package convert
