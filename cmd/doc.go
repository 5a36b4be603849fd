// Package cmd implements the command-line interface for drive2md.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing the convert_drive_url tool
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
