package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvString(t *testing.T) {
	t.Run("returns fallback when unset", func(t *testing.T) {
		assert.Equal(t, "stdio", envString("DRIVE2MD_TEST_UNSET", "stdio"))
	})

	t.Run("returns value when set", func(t *testing.T) {
		t.Setenv("DRIVE2MD_TEST_TRANSPORT", "streamable-http")
		assert.Equal(t, "streamable-http", envString("DRIVE2MD_TEST_TRANSPORT", "stdio"))
	})

	t.Run("empty value falls back", func(t *testing.T) {
		t.Setenv("DRIVE2MD_TEST_TRANSPORT", "")
		assert.Equal(t, "stdio", envString("DRIVE2MD_TEST_TRANSPORT", "stdio"))
	})
}

func TestEnvInt64(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback int64
		expected int64
		wantErr  bool
	}{
		{
			name:     "unset returns fallback",
			value:    "",
			fallback: 10 << 20,
			expected: 10 << 20,
		},
		{
			name:     "parses decimal value",
			value:    "1048576",
			fallback: 10 << 20,
			expected: 1 << 20,
		},
		{
			name:    "rejects non-numeric value",
			value:   "10MiB",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("DRIVE2MD_TEST_MAX_BYTES", tt.value)
			}

			got, err := envInt64("DRIVE2MD_TEST_MAX_BYTES", tt.fallback)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback time.Duration
		expected time.Duration
		wantErr  bool
	}{
		{
			name:     "unset returns fallback",
			value:    "",
			fallback: 2 * time.Minute,
			expected: 2 * time.Minute,
		},
		{
			name:     "parses Go duration",
			value:    "90s",
			fallback: 2 * time.Minute,
			expected: 90 * time.Second,
		},
		{
			name:    "rejects bare number",
			value:   "120",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("DRIVE2MD_TEST_TIMEOUT", tt.value)
			}

			got, err := envDuration("DRIVE2MD_TEST_TIMEOUT", tt.fallback)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback bool
		expected bool
		wantErr  bool
	}{
		{
			name:     "unset returns fallback",
			value:    "",
			fallback: true,
			expected: true,
		},
		{
			name:     "parses false",
			value:    "false",
			fallback: true,
			expected: false,
		},
		{
			name:     "parses 1 as true",
			value:    "1",
			fallback: false,
			expected: true,
		},
		{
			name:    "rejects garbage",
			value:   "yes please",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("DRIVE2MD_TEST_METRICS", tt.value)
			}

			got, err := envBool("DRIVE2MD_TEST_METRICS", tt.fallback)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNewServeCmdFlagDefaults(t *testing.T) {
	cmd := newServeCmd()

	transport, err := cmd.Flags().GetString("transport")
	require.NoError(t, err)
	assert.Equal(t, "stdio", transport)

	httpAddr, err := cmd.Flags().GetString("http-addr")
	require.NoError(t, err)
	assert.Equal(t, ":8080", httpAddr)

	maxBytes, err := cmd.Flags().GetInt64("max-bytes")
	require.NoError(t, err)
	assert.Equal(t, int64(10<<20), maxBytes)

	timeout, err := cmd.Flags().GetDuration("timeout")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, timeout)

	metricsEnabled, err := cmd.Flags().GetBool("metrics-enabled")
	require.NoError(t, err)
	assert.True(t, metricsEnabled)

	metricsAddr, err := cmd.Flags().GetString("metrics-addr")
	require.NoError(t, err)
	assert.Equal(t, ":9090", metricsAddr)
}
