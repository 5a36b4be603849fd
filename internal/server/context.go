package server

import (
	"context"
	"sync"

	"github.com/teemow/drive2md/internal/convert"
	"github.com/teemow/drive2md/internal/instrumentation"
)

// ServerContext holds the shared state for the MCP server: the converter,
// the telemetry recorders and the shutdown flag.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	converter   *convert.Converter
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context bound to the given
// converter.
func NewServerContext(ctx context.Context, converter *convert.Converter) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:       shutdownCtx,
		cancel:    cancel,
		converter: converter,
	}
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Converter returns the conversion pipeline.
func (sc *ServerContext) Converter() *convert.Converter {
	return sc.converter
}

// SetMetrics sets the metrics recorder used by tool instrumentation.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger used by tool instrumentation.
func (sc *ServerContext) SetAuditLogger(logger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = logger
}

// AuditLogger returns the audit logger, or nil when audit logging is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
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
