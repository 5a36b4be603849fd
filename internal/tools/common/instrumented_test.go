package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/drive2md/internal/instrumentation"
	"github.com/teemow/drive2md/internal/server"
)

func TestInstrumentedToolHandlerPassthrough(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil)

	called := false
	handler := InstrumentedToolHandler("convert_drive_url", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("ok"), nil
	})

	result, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, called)
	assert.False(t, result.IsError)
}

func TestInstrumentedToolHandlerAuditsSuccess(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil)

	var buf bytes.Buffer
	sc.SetAuditLogger(instrumentation.NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	handler := InstrumentedToolHandler("convert_drive_url", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})

	_, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "tool_executed")
	assert.Contains(t, out, "tool=convert_drive_url")
}

func TestInstrumentedToolHandlerExposesInvocation(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil)

	var buf bytes.Buffer
	sc.SetAuditLogger(instrumentation.NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	handler := InstrumentedToolHandler("convert_drive_url", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		invocation := InvocationFromContext(ctx)
		require.NotNil(t, invocation)
		invocation.WithFamily("document").WithSourceFormat("text/markdown")
		return mcp.NewToolResultText("ok"), nil
	})

	_, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "family=document")
	assert.Contains(t, out, "source_format=text/markdown")
}

func TestInvocationFromContextWithoutInstrumentation(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil)

	handler := InstrumentedToolHandler("convert_drive_url", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		assert.Nil(t, InvocationFromContext(ctx))
		return mcp.NewToolResultText("ok"), nil
	})

	_, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
}

func TestInstrumentedToolHandlerAuditsFailures(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil)

	var buf bytes.Buffer
	sc.SetAuditLogger(instrumentation.NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	t.Run("tool error result", func(t *testing.T) {
		buf.Reset()
		handler := InstrumentedToolHandler("convert_drive_url", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultError("boom"), nil
		})

		_, err := handler(context.Background(), mcp.CallToolRequest{})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "tool_failed")
	})

	t.Run("handler error", func(t *testing.T) {
		buf.Reset()
		handler := InstrumentedToolHandler("convert_drive_url", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return nil, errors.New("exploded")
		})

		_, err := handler(context.Background(), mcp.CallToolRequest{})
		require.Error(t, err)
		assert.Contains(t, buf.String(), "tool_failed")
		assert.Contains(t, buf.String(), "exploded")
	})
}
