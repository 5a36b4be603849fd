package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/drive2md/internal/instrumentation"
)

func TestNewMetricsServerRequiresProvider(t *testing.T) {
	_, err := NewMetricsServer(MetricsServerConfig{Addr: ":9090"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instrumentation provider is required")
}

func TestNewMetricsServerRequiresEnabledProvider(t *testing.T) {
	config := instrumentation.DefaultConfig()
	config.Enabled = false

	provider, err := instrumentation.NewProvider(context.Background(), config)
	require.NoError(t, err)

	_, err = NewMetricsServer(MetricsServerConfig{
		Addr:                    ":9090",
		InstrumentationProvider: provider,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enabled")
}

func TestMetricsServerServesEndpoints(t *testing.T) {
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.Enabled = true
	instrConfig.MetricsExporter = instrumentation.ExporterPrometheus
	instrConfig.TracingExporter = instrumentation.ExporterNone

	provider, err := instrumentation.NewProvider(context.Background(), instrConfig)
	require.NoError(t, err)
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	metricsServer, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    "127.0.0.1:0",
		InstrumentationProvider: provider,
	})
	require.NoError(t, err)

	ready := make(chan struct{})
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- metricsServer.StartWithReadySignal(ready)
	}()

	select {
	case <-ready:
	case err := <-serveErr:
		t.Fatalf("metrics server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server startup timed out")
	}

	base := fmt.Sprintf("http://%s", metricsServer.Addr())

	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, metricsServer.Shutdown(shutdownCtx))
	assert.ErrorIs(t, <-serveErr, http.ErrServerClosed)
}
