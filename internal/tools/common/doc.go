// Package common provides shared utilities for MCP tool implementations.
// It contains the instrumentation wrapper every tool handler is registered
// through, so metrics, tracing and audit logging stay consistent across
// tool packages.
package common
