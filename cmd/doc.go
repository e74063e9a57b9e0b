// Package cmd implements the command-line interface for omnifocus-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing OmniFocus tools
//   - exec: Run a raw OmniJS snippet through the bridge (debugging)
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
