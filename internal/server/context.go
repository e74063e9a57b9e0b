package server

import (
	"context"
	"sync"

	"github.com/taskbridge/omnifocus-mcp/internal/instrumentation"
	"github.com/taskbridge/omnifocus-mcp/internal/omnifocus"
)

// ServerContext holds the shared state for the MCP server: the OmniFocus
// client every tool calls through, and the observability hooks.
type ServerContext struct {
	ctx     context.Context
	cancel  context.CancelFunc
	client  *omnifocus.Client
	metrics *instrumentation.Metrics
	audit   *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context wrapping the given client.
func NewServerContext(ctx context.Context, client *omnifocus.Client) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		client: client,
	}
}

// Context returns the server context. It is cancelled on shutdown, which
// aborts any osascript execution still in flight.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Client returns the OmniFocus client.
func (sc *ServerContext) Client() *omnifocus.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.client
}

// SetClient replaces the OmniFocus client. Used by tests.
func (sc *ServerContext) SetClient(client *omnifocus.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.client = client
}

// Metrics returns the metrics recorder, which may be nil when
// instrumentation is disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// AuditLogger returns the audit logger, which may be nil when audit
// logging is disabled.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.audit
}

// SetAuditLogger sets the audit logger.
func (sc *ServerContext) SetAuditLogger(audit *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.audit = audit
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
