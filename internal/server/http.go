package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/drive2md/internal/instrumentation"
)

const (
	// MCPEndpointPath is the path the streamable HTTP transport is served on.
	MCPEndpointPath = "/mcp"

	// DefaultHTTPReadHeaderTimeout bounds how long a client may take to send
	// request headers.
	DefaultHTTPReadHeaderTimeout = 10 * time.Second

	// DefaultHTTPIdleTimeout closes idle keep-alive connections.
	DefaultHTTPIdleTimeout = 120 * time.Second
)

// HTTPServer serves the MCP streamable HTTP transport together with the
// health endpoints on one listener. Sessions are stateless: the proxy in
// front re-authenticates every request, so nothing is kept between calls.
type HTTPServer struct {
	httpServer    *http.Server
	streamable    *mcpserver.StreamableHTTPServer
	healthChecker *HealthChecker
	metrics       *instrumentation.Metrics
	logger        *slog.Logger
}

// NewHTTPServer creates an HTTPServer for the given MCP server. The
// healthChecker may be nil; health endpoints are then not registered.
func NewHTTPServer(mcpSrv *mcpserver.MCPServer, healthChecker *HealthChecker, logger *slog.Logger) *HTTPServer {
	if logger == nil {
		logger = slog.Default()
	}

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(MCPEndpointPath),
		mcpserver.WithHTTPContextFunc(HTTPContextFunc),
		mcpserver.WithStateLess(true),
	)

	return &HTTPServer{
		streamable:    streamable,
		healthChecker: healthChecker,
		logger:        logger,
	}
}

// SetMetrics enables HTTP request metrics on the server.
func (s *HTTPServer) SetMetrics(metrics *instrumentation.Metrics) {
	s.metrics = metrics
}

// handler builds the request mux: the MCP endpoint plus health endpoints,
// wrapped with request metrics when configured.
func (s *HTTPServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MCPEndpointPath, s.streamable)

	if s.healthChecker != nil {
		s.healthChecker.RegisterHealthEndpoints(mux)
	}

	if s.metrics == nil {
		return mux
	}
	return s.instrumented(mux)
}

// statusRecorder captures the response status code for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush forwards flushes so streaming responses keep working under the
// metrics wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *HTTPServer) instrumented(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, recorder.status, time.Since(start))
	})
}

// Start begins serving on addr and blocks until the listener fails or the
// server is shut down. ready, when non-nil, is closed once the listener is
// bound.
func (s *HTTPServer) Start(addr string, ready chan<- struct{}) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: DefaultHTTPReadHeaderTimeout,
		IdleTimeout:       DefaultHTTPIdleTimeout,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.logger.Info("starting HTTP server",
		slog.String("addr", addr),
		slog.String("mcp_endpoint", MCPEndpointPath),
	)

	if ready != nil {
		close(ready)
	}

	return s.httpServer.Serve(listener)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
