package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	attrMethod      = "method"
	attrPath        = "path"
	attrStatus      = "status"
	attrOperation   = "operation"
	attrResult      = "result"
	attrTool        = "tool"
	attrFailureKind = "failure_kind"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	activeSessions      metric.Int64UpDownCounter

	// Bridge metrics
	bridgeExecutionsTotal metric.Int64Counter
	bridgeDuration        metric.Float64Histogram
	batchItemsTotal       metric.Int64Counter

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels controls whether the failure kind label is added to
	// bridge executions
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether extra labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.activeSessions, err = meter.Int64UpDownCounter(
		"active_sessions",
		metric.WithDescription("Number of active client sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_sessions gauge: %w", err)
	}

	// Bridge Metrics
	m.bridgeExecutionsTotal, err = meter.Int64Counter(
		"omnifocus_bridge_executions_total",
		metric.WithDescription("Total number of osascript bridge executions"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create omnifocus_bridge_executions_total counter: %w", err)
	}

	m.bridgeDuration, err = meter.Float64Histogram(
		"omnifocus_bridge_duration_seconds",
		metric.WithDescription("Osascript bridge execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create omnifocus_bridge_duration_seconds histogram: %w", err)
	}

	m.batchItemsTotal, err = meter.Int64Counter(
		"omnifocus_batch_items_total",
		metric.WithDescription("Total number of batch item outcomes"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create omnifocus_batch_items_total counter: %w", err)
	}

	// MCP Tool Metrics
	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordBridgeExecution records an osascript round trip.
//
// Parameters:
//   - operation: Operation name (add_task, filter_tasks, dump_database, ...)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the execution
func (m *Metrics) RecordBridgeExecution(ctx context.Context, operation, status string, duration time.Duration) {
	m.RecordBridgeExecutionWithKind(ctx, operation, status, "", duration)
}

// RecordBridgeExecutionWithKind records an osascript round trip with the
// failure kind. The kind label is only attached when detailed labels are
// enabled and the execution failed.
//
// Parameters:
//   - operation: Operation name
//   - status: Result status ("success" or "error")
//   - kind: Failure kind ("bridge" or "application"), empty on success
//   - duration: Time taken for the execution
func (m *Metrics) RecordBridgeExecutionWithKind(ctx context.Context, operation, status, kind string, duration time.Duration) {
	if m.bridgeExecutionsTotal == nil || m.bridgeDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	if m.detailedLabels && kind != "" {
		attrs = append(attrs, attribute.String(attrFailureKind, kind))
	}

	m.bridgeExecutionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.bridgeDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordBatchItems records the outcome partition of a batch operation.
//
// Parameters:
//   - tool: Batch tool name (omnifocus_batch_add_tasks, omnifocus_batch_complete_tasks)
//   - successful: Number of items that succeeded
//   - failed: Number of items that failed
func (m *Metrics) RecordBatchItems(ctx context.Context, tool string, successful, failed int) {
	if m.batchItemsTotal == nil {
		return // Instrumentation not initialized
	}

	if successful > 0 {
		m.batchItemsTotal.Add(ctx, int64(successful), metric.WithAttributes(
			attribute.String(attrTool, tool),
			attribute.String(attrResult, BatchResultSuccess),
		))
	}
	if failed > 0 {
		m.batchItemsTotal.Add(ctx, int64(failed), metric.WithAttributes(
			attribute.String(attrTool, tool),
			attribute.String(attrResult, BatchResultFailure),
		))
	}
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
//
// Parameters:
//   - toolName: Name of the MCP tool (e.g., "omnifocus_add_task")
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the tool execution
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// IncrementActiveSessions increments the active sessions counter.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return // Instrumentation not initialized
	}

	m.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions decrements the active sessions counter.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return // Instrumentation not initialized
	}

	m.activeSessions.Add(ctx, -1)
}
