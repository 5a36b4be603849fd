package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/drive2md/internal/convert"
	"github.com/teemow/drive2md/internal/drive"
	"github.com/teemow/drive2md/internal/instrumentation"
	"github.com/teemow/drive2md/internal/logging"
	"github.com/teemow/drive2md/internal/server"
	"github.com/teemow/drive2md/internal/tools/convert_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		debugMode bool
		transport string
		httpAddr  string
		maxBytes  int64
		timeout   time.Duration
		// Metrics server configuration
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing the convert_drive_url
tool, which converts Google Drive documents to Markdown.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Authentication:
  The server performs no authentication itself. A reverse proxy in front of
  it must validate callers and forward a Google bearer token in the
  Authorization header of every request; that token is used as-is for the
  upstream Drive API calls.

Environment variables mirror the flags for container deployments:
  MCP_TRANSPORT, MCP_HTTP_ADDR, MAX_CONTENT_BYTES, CONVERT_TIMEOUT,
  METRICS_ENABLED, METRICS_ADDR`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Environment variables only apply when the flag was left at its
			// default, so explicit flags always win.
			if !cmd.Flags().Changed("transport") {
				transport = envString("MCP_TRANSPORT", transport)
			}
			if !cmd.Flags().Changed("http-addr") {
				httpAddr = envString("MCP_HTTP_ADDR", httpAddr)
			}
			if !cmd.Flags().Changed("max-bytes") {
				var err error
				maxBytes, err = envInt64("MAX_CONTENT_BYTES", maxBytes)
				if err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("timeout") {
				var err error
				timeout, err = envDuration("CONVERT_TIMEOUT", timeout)
				if err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("metrics-enabled") {
				var err error
				metricsEnabled, err = envBool("METRICS_ENABLED", metricsEnabled)
				if err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("metrics-addr") {
				metricsAddr = envString("METRICS_ADDR", metricsAddr)
			}

			if maxBytes <= 0 {
				return fmt.Errorf("max-bytes must be positive, got %d", maxBytes)
			}
			if timeout <= 0 {
				return fmt.Errorf("timeout must be positive, got %s", timeout)
			}

			metricsConfig := MetricsConfig{
				Enabled: metricsEnabled,
				Addr:    metricsAddr,
			}

			convertConfig := convert.Config{
				MaxBytes: maxBytes,
				Timeout:  timeout,
			}

			return runServe(transport, debugMode, httpAddr, convertConfig, metricsConfig)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http. Can also use MCP_TRANSPORT env var.")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport). Can also use MCP_HTTP_ADDR env var.")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", convert.DefaultMaxBytes, "Maximum size in bytes of retrieved document content. Larger documents fail with size_limit_exceeded. Can also use MAX_CONTENT_BYTES env var.")
	cmd.Flags().DurationVar(&timeout, "timeout", convert.DefaultTimeout, "Per-invocation conversion timeout. Can also use CONVERT_TIMEOUT env var.")

	// Metrics server flags
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// envString returns the environment variable value or the fallback when unset.
func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt64(key string, fallback int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return parsed, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q (expected a Go duration like 2m or 90s): %w", key, value, err)
	}
	return parsed, nil
}

func envBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q (expected true/false): %w", key, value, err)
	}
	return parsed, nil
}

func runServe(transport string, debugMode bool, httpAddr string, convertConfig convert.Config, metricsConfig MetricsConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Logs go to stderr so the stdio transport keeps stdout for the protocol.
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if err := instrConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation configuration: %w", err)
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Error("error during instrumentation shutdown", slog.Any("error", err))
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if transport != "stdio" && metricsConfig.Enabled && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
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

		select {
		case <-metricsReady:
			logger.Info("metrics server started", slog.String("addr", metricsServer.Addr()))
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	// The Drive binding is built per invocation from the forwarded bearer
	// token; nothing credential-shaped outlives a single call.
	var factory convert.APIFactory
	if provider.Enabled() {
		metrics := provider.Metrics()
		factory = func(ctx context.Context, cred drive.Credential) (drive.API, error) {
			return drive.NewClientWithObserver(ctx, cred, metrics)
		}
	} else {
		factory = func(ctx context.Context, cred drive.Credential) (drive.API, error) {
			return drive.NewClient(ctx, cred)
		}
	}

	converter := convert.New(factory, convertConfig, logging.WithTool(logger, convert_tools.ToolName))

	serverContext := server.NewServerContext(shutdownCtx, converter)

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLogger(logger))
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("error during metrics server shutdown", slog.Any("error", err))
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("error during server context shutdown", slog.Any("error", err))
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("drive2md", version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := convert_tools.RegisterConvertTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register convert tools: %w", err)
	}

	logger.Info("starting drive2md",
		slog.String("version", version),
		slog.String("transport", transport),
		slog.Int64("max_bytes", convertConfig.MaxBytes),
		slog.Duration("timeout", convertConfig.Timeout),
	)

	// Start the appropriate server based on transport type
	switch transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, httpAddr, logger)
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

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, addr string, logger *slog.Logger) error {
	healthChecker := server.NewHealthChecker(serverContext)

	httpSrv := server.NewHTTPServer(mcpSrv, healthChecker, logger)
	if metrics := serverContext.Metrics(); metrics != nil {
		httpSrv.SetMetrics(metrics)
	}

	ready := make(chan struct{})
	serverErr := make(chan error, 1)
	go func() {
		if err := httpSrv.Start(addr, ready); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ready:
		healthChecker.SetReady(true)
		logger.Info("MCP server ready",
			slog.String("addr", addr),
			slog.String("endpoint", server.MCPEndpointPath),
		)
	case err := <-serverErr:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	}

	select {
	case <-ctx.Done():
		// Readiness drops first so the load balancer drains traffic before
		// in-flight requests are given their grace period.
		healthChecker.SetReady(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown failed: %w", err)
		}
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		return nil
	}
}
