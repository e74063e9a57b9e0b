package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/taskbridge/omnifocus-mcp/internal/instrumentation"
	"github.com/taskbridge/omnifocus-mcp/internal/logging"
	"github.com/taskbridge/omnifocus-mcp/internal/omnifocus"
	"github.com/taskbridge/omnifocus-mcp/internal/omnijs"
	"github.com/taskbridge/omnifocus-mcp/internal/server"
	"github.com/taskbridge/omnifocus-mcp/internal/tools/database_tools"
	"github.com/taskbridge/omnifocus-mcp/internal/tools/perspective_tools"
	"github.com/taskbridge/omnifocus-mcp/internal/tools/project_tools"
	"github.com/taskbridge/omnifocus-mcp/internal/tools/query_tools"
	"github.com/taskbridge/omnifocus-mcp/internal/tools/task_tools"
)

// BridgeConfig holds settings for the OmniJS scripting bridge
type BridgeConfig struct {
	// AppName is the application targeted by the bridge (default: OmniFocus)
	AppName string

	// OsascriptBin is the path to the osascript binary
	OsascriptBin string
}

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		debugMode    bool
		transport    string
		httpAddr     string
		yolo         bool
		appName      string
		osascriptBin string
		// Metrics server configuration
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to expose OmniFocus task
management tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default, the server operates in read-only mode, providing only safe operations.
  Use --yolo to enable write operations (task creation, editing, removal, etc.)

OmniFocus Bridge:
  Scripts are executed through osascript against the running OmniFocus
  application. Use --app-name and --osascript-bin (or the OMNIFOCUS_APP_NAME
  and OSASCRIPT_BIN env vars) to target a different app name or binary,
  e.g. a beta build.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			bridgeConfig := BridgeConfig{
				AppName:      appName,
				OsascriptBin: osascriptBin,
			}
			loadBridgeEnvVars(cmd, &bridgeConfig)

			metricsConfig := MetricsConfig{
				Enabled: metricsEnabled,
				Addr:    metricsAddr,
			}

			return runServe(transport, debugMode, httpAddr, yolo, bridgeConfig, metricsConfig)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (task creation, editing, removal, etc.). Default is read-only mode.")
	cmd.Flags().StringVar(&appName, "app-name", omnijs.DefaultAppName, "Application name targeted by the scripting bridge. Can also use OMNIFOCUS_APP_NAME env var.")
	cmd.Flags().StringVar(&osascriptBin, "osascript-bin", omnijs.DefaultBinary, "Path to the osascript binary. Can also use OSASCRIPT_BIN env var.")

	// Metrics server flags
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// loadBridgeEnvVars loads bridge configuration from environment variables.
// Environment variables only override flag values when the flag was not
// explicitly set by the user.
func loadBridgeEnvVars(cmd *cobra.Command, config *BridgeConfig) {
	if !cmd.Flags().Changed("app-name") {
		if name := os.Getenv("OMNIFOCUS_APP_NAME"); name != "" {
			config.AppName = name
		}
	}
	if !cmd.Flags().Changed("osascript-bin") {
		if bin := os.Getenv("OSASCRIPT_BIN"); bin != "" {
			config.OsascriptBin = bin
		}
	}
}

func runServe(transport string, debugMode bool, httpAddr string, yolo bool, bridgeConfig BridgeConfig, metricsConfig MetricsConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if debugMode {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Load metrics config from environment if not set via flags
	if !metricsConfig.Enabled {
		if os.Getenv("METRICS_ENABLED") == "true" {
			metricsConfig.Enabled = true
		}
	}
	if metricsConfig.Addr == "" || metricsConfig.Addr == ":9090" {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			metricsConfig.Addr = addr
		}
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			if transport != "stdio" {
				log.Printf("Error during instrumentation shutdown: %v", err)
			}
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if transport != "stdio" && metricsConfig.Enabled && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		// Wait for metrics server to be ready or fail
		select {
		case <-metricsReady:
			log.Printf("Metrics server started on %s", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	// Create the scripting bridge and OmniFocus client
	executor := omnijs.NewExecutor(
		omnijs.WithAppName(bridgeConfig.AppName),
		omnijs.WithBinary(bridgeConfig.OsascriptBin),
	)
	client := omnifocus.NewClient(executor, logging.WithTransport(slog.Default(), transport))

	// Create server context
	serverContext := server.NewServerContext(shutdownCtx, client)

	// Set metrics and audit logger for bridge and tool instrumentation
	if provider.Enabled() {
		client.SetMetrics(provider.Metrics())
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			if transport != "stdio" {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("omnifocus-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)

	// readOnly is the inverse of yolo
	readOnly := !yolo

	// Log the mode for visibility (only for non-stdio transports)
	if transport != "stdio" {
		if readOnly {
			log.Println("Starting server in READ-ONLY mode (use --yolo to enable write operations)")
		} else {
			log.Println("Starting server with WRITE operations enabled (--yolo flag is set)")
		}
	}

	// Register all tools
	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	// Start the appropriate server based on transport type
	switch transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		fmt.Printf("Starting omnifocus-mcp server with %s transport...\n", transport)
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, httpAddr, metricsConfig, provider)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	// Define all tool registrations
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Tasks",
			register: func() error {
				return task_tools.RegisterTaskTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Projects",
			register: func() error {
				return project_tools.RegisterProjectTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Queries",
			register: func() error {
				return query_tools.RegisterQueryTools(mcpSrv, ctx)
			},
		},
		{
			name: "Perspectives",
			register: func() error {
				return perspective_tools.RegisterPerspectiveTools(mcpSrv, ctx)
			},
		},
		{
			name: "Database",
			register: func() error {
				return database_tools.RegisterDatabaseTools(mcpSrv, ctx)
			},
		},
	}

	// Register all tools
	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, addr string, metricsConfig MetricsConfig, instrProvider *instrumentation.Provider) error {
	// Set up health checker for health check endpoints
	healthChecker := server.NewHealthChecker(serverContext)

	// Set up HTTP instrumentation for metrics
	var metrics *instrumentation.Metrics
	if instrProvider != nil && instrProvider.Enabled() {
		metrics = instrProvider.Metrics()
	}

	httpServer := server.NewHTTPServer(mcpSrv, healthChecker, metrics)

	fmt.Printf("Streamable HTTP server starting on %s\n", addr)
	fmt.Printf("  HTTP endpoint: /mcp\n")
	fmt.Printf("  Health endpoints: /healthz, /readyz\n")
	if metricsConfig.Enabled {
		fmt.Printf("  Metrics endpoint: %s/metrics\n", metricsConfig.Addr)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		fmt.Println("HTTP server stopped normally")
	}

	fmt.Println("HTTP server gracefully stopped")
	return nil
}
