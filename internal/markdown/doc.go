// Package markdown normalizes retrieved document content into canonical
// Markdown.
//
// Content that is already Markdown passes through unchanged; HTML is
// converted structurally (headings, lists, links, emphasis, code, tables);
// delimited text is rendered as a Markdown table; plain text passes through
// without added markup. The package performs no I/O.
package markdown
