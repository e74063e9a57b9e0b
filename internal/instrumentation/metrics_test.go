package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, ctx context.Context) *Provider {
	t.Helper()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })
	return provider
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "GET", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 500, 50*time.Millisecond)
}

func TestMetrics_RecordBridgeExecution(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordBridgeExecution(ctx, "add_task", StatusSuccess, 200*time.Millisecond)
	metrics.RecordBridgeExecution(ctx, "filter_tasks", StatusError, 500*time.Millisecond)
	metrics.RecordBridgeExecutionWithKind(ctx, "dump_database", StatusError, FailureKindBridge, time.Second)
	metrics.RecordBridgeExecutionWithKind(ctx, "edit_task", StatusError, FailureKindApplication, time.Second)
}

func TestMetrics_RecordBatchItems(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic, including all-zero partitions
	metrics.RecordBatchItems(ctx, "omnifocus_batch_add_tasks", 3, 1)
	metrics.RecordBatchItems(ctx, "omnifocus_batch_complete_tasks", 0, 2)
	metrics.RecordBatchItems(ctx, "omnifocus_batch_add_tasks", 0, 0)
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordToolInvocation(ctx, "omnifocus_add_task", StatusSuccess, 100*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "omnifocus_remove_project", StatusError, 50*time.Millisecond)
}

func TestMetrics_ActiveSessions(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.IncrementActiveSessions(ctx)
	metrics.IncrementActiveSessions(ctx)
	metrics.DecrementActiveSessions(ctx)
}

func TestMetrics_UninitializedIsNoOp(t *testing.T) {
	ctx := context.Background()
	metrics := &Metrics{}

	// None of these should panic on the zero value
	metrics.RecordHTTPRequest(ctx, "GET", "/mcp", 200, time.Millisecond)
	metrics.RecordBridgeExecution(ctx, "add_task", StatusSuccess, time.Millisecond)
	metrics.RecordBatchItems(ctx, "omnifocus_batch_add_tasks", 1, 1)
	metrics.RecordToolInvocation(ctx, "omnifocus_add_task", StatusSuccess, time.Millisecond)
	metrics.IncrementActiveSessions(ctx)
	metrics.DecrementActiveSessions(ctx)
}
