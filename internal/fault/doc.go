// Package fault defines the stable error taxonomy for the conversion
// pipeline. Every failure surfaced to an MCP caller is classified into one
// of the kinds defined here; the kind string is part of the tool contract.
package fault
