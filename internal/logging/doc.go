// Package logging provides structured logging utilities for the
// omnifocus-mcp server.
//
// This package centralizes logging patterns to ensure consistent,
// structured logging throughout the codebase using the standard library's
// slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Consistent attribute naming across the codebase
//   - Script snippet truncation so debug logs stay bounded
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "omnifocus.filter_tasks")
//	logger.Info("filtered tasks",
//	    logging.Status("success"))
//
// Log a script without flooding the output:
//
//	logger.Debug("executing script",
//	    logging.ScriptSnippet(script))
package logging
