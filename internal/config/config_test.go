package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "task-api", cfg.ServiceName)
	assert.Equal(t, ":8000", cfg.Addr())
	assert.Equal(t, StorageBackendPostgres, cfg.StorageBackend)
	assert.Equal(t, DispatchModeInProcess, cfg.DispatchMode)
	assert.Equal(t, 10*time.Second, cfg.CompletionTimeout)
	assert.Equal(t, 10*time.Second, cfg.FollowupTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "api-key", cfg.LLMAuthHeader)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "Memory")
	t.Setenv("TOOL_DISPATCH_MODE", "loopback")
	t.Setenv("TOOL_DISPATCH_BASE_URL", "http://127.0.0.1:9090/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost,http://localhost:5500")
	t.Setenv("LLM_FOLLOWUP_TIMEOUT", "0s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, StorageBackendMemory, cfg.StorageBackend)
	assert.Equal(t, DispatchModeLoopback, cfg.DispatchMode)
	assert.Equal(t, "http://127.0.0.1:9090", cfg.DispatchBaseURL)
	assert.Equal(t, []string{"http://localhost", "http://localhost:5500"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.FollowupTimeout)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown storage", "STORAGE_BACKEND", "sqlite"},
		{"unknown dispatch mode", "TOOL_DISPATCH_MODE", "grpc"},
		{"bad duration", "LLM_COMPLETION_TIMEOUT", "ten seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoopbackRequiresBaseURL(t *testing.T) {
	t.Setenv("TOOL_DISPATCH_MODE", "loopback")
	t.Setenv("TOOL_DISPATCH_BASE_URL", " ")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOOL_DISPATCH_BASE_URL")
}
