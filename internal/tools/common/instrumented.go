package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskbridge/omnifocus-mcp/internal/instrumentation"
	"github.com/taskbridge/omnifocus-mcp/internal/server"
)

// GetResourceFromArgs extracts the identifier of the task or project a tool
// call targets, when the request carries one.
func GetResourceFromArgs(args map[string]interface{}) string {
	for _, key := range []string{"task_id", "project_id", "id"} {
		if v, ok := args[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// resourceType names the kind of entity an ID argument refers to.
func resourceType(args map[string]interface{}) string {
	if v, ok := args["task_id"].(string); ok && v != "" {
		return "task"
	}
	if v, ok := args["project_id"].(string); ok && v != "" {
		return "project"
	}
	return ""
}

// InstrumentedToolHandler wraps a tool handler with tracing, metrics and
// audit logging. It records tool invocation metrics and logs the invocation
// for audit purposes.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return InstrumentedToolHandlerWithOperation(toolName, "", sc, handler)
}

// InstrumentedToolHandlerWithOperation is like InstrumentedToolHandler but
// also records the bridge operation behind the tool, so audit entries can be
// correlated with the bridge execution metrics.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithOperation("my_tool", "add_task", sc, handler))
func InstrumentedToolHandlerWithOperation(
	toolName string,
	operation string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Get metrics and audit logger (may be nil if not configured)
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		// If no instrumentation configured, just call the handler
		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		resource := GetResourceFromArgs(request.GetArguments())

		spanAttrs := instrumentation.NewSpanAttributeBuilder()
		if operation != "" {
			spanAttrs.WithOperation(operation)
		}
		if resource != "" {
			spanAttrs.WithResource(resourceType(request.GetArguments()), resource)
		}

		ctx, span := instrumentation.StartToolSpan(ctx, toolName, spanAttrs.Build()...)
		defer span.End()

		// Start timing and create invocation record
		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx)
		if operation != "" {
			invocation.WithOperation(operation)
		}
		if resource != "" {
			invocation.WithResource(resource)
		}

		// Call the actual handler
		result, err := handler(ctx, request)
		duration := time.Since(start)

		// Determine status
		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			if err != nil {
				instrumentation.SetSpanError(span, err)
				invocation.CompleteWithError(err)
			} else {
				invocation.Complete(false, nil)
			}
		} else {
			instrumentation.SetSpanSuccess(span)
			invocation.CompleteSuccess()
		}

		// Record metrics
		if metrics != nil {
			metrics.RecordToolInvocation(ctx, toolName, status, duration)
		}

		// Log audit
		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}
