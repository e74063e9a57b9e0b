// Package server provides the MCP server context, HTTP transport, and
// operational endpoints for the omnifocus-mcp application.
//
// # Key Components
//
// ServerContext owns the OmniFocus client and the observability hooks
// (metrics recorder, audit logger) shared by every registered tool. It
// carries the shutdown signal so in-flight bridge executions are cancelled
// when the process stops.
//
// HTTPServer exposes the MCP server over streamable HTTP on /mcp together
// with the health endpoints, for running the bridge as a network service
// on the Mac that hosts OmniFocus.
//
// HealthChecker serves liveness and readiness probes. MetricsServer serves
// Prometheus metrics on a dedicated port, keeping operational metrics off
// the main application listener.
package server
