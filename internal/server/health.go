package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
)

// HealthChecker answers liveness and readiness probes for the HTTP
// transport. Liveness only reflects that the process is serving; readiness
// additionally flips off once shutdown begins so load balancers drain
// in-flight MCP sessions before the listener closes.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	startTime     time.Time
}

// NewHealthChecker creates a HealthChecker that reports ready until told
// otherwise.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the server should receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// shuttingDown reports whether the owning server context has begun shutdown.
// A nil context never shuts down, which keeps standalone checkers usable.
func (h *HealthChecker) shuttingDown() bool {
	return h.serverContext != nil && h.serverContext.IsShutdown()
}

// bridgeConfigured reports whether an OmniFocus client has been wired in.
// The bridge spawns a process per call, so there is no connection to probe;
// presence of the client is the only meaningful signal.
func (h *HealthChecker) bridgeConfigured() bool {
	return h.serverContext != nil && h.serverContext.Client() != nil
}

// HealthResponse is the JSON body of the liveness and readiness endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse carries the extended health view.
type DetailedHealthResponse struct {
	Status           string `json:"status"`
	Uptime           string `json:"uptime"`
	BridgeConfigured bool   `json:"bridge_configured"`
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// LivenessHandler serves /healthz. It answers ok for as long as the process
// can serve HTTP at all.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler serves /readyz. Not-ready and shutting-down both yield
// 503 with the failing check named in the body.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks := map[string]string{
			"ready":    healthStatusOK,
			"shutdown": healthStatusOK,
		}

		ok := true
		if !h.ready.Load() {
			checks["ready"] = healthStatusNotReady
			ok = false
		}
		if h.shuttingDown() {
			checks["shutdown"] = healthStatusShuttingDown
			ok = false
		}

		status, code := healthStatusOK, http.StatusOK
		if !ok {
			status, code = healthStatusNotReady, http.StatusServiceUnavailable
		}
		writeJSON(w, code, HealthResponse{Status: status, Checks: checks})
	})
}

// DetailedHealthHandler serves /healthz/detailed with uptime and bridge
// configuration state. A missing bridge client does not fail the check;
// tools report that per call.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := DetailedHealthResponse{
			Status:           healthStatusOK,
			Uptime:           time.Since(h.startTime).Truncate(time.Second).String(),
			BridgeConfigured: h.bridgeConfigured(),
		}

		code := http.StatusOK
		switch {
		case !h.ready.Load():
			resp.Status = healthStatusNotReady
			code = http.StatusServiceUnavailable
		case h.shuttingDown():
			resp.Status = healthStatusShuttingDown
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	})
}

// RegisterHealthEndpoints mounts all health endpoints on the given mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
