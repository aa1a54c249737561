package config

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionIdleTimeout)
	assert.Equal(t, "http", cfg.LLM.Provider)
	assert.Equal(t, "chat", cfg.LLM.Flavor)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.APIEndpoint)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.False(t, cfg.LLM.SendTopK)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("LLM_API_KEY", "secret")
	t.Setenv("LLM_PROVIDER", "azure")
	t.Setenv("LLM_FLAVOR", "completion")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("LLM_SEND_TOP_K", "true")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SESSION_IDLE_TIMEOUT", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "azure", cfg.LLM.Provider)
	assert.Equal(t, "completion", cfg.LLM.Flavor)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.True(t, cfg.LLM.SendTopK)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Zero(t, cfg.Server.SessionIdleTimeout)
}

func TestLoadConfigInvalidDuration(t *testing.T) {
	t.Setenv("LLM_TIMEOUT", "soon")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLogConfigLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "debug", Format: "json"}.Logger(&buf)
	logger.Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	logger = LogConfig{Level: "nonsense", Format: "text"}.Logger(&buf)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}
