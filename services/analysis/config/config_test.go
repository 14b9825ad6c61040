// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// Tests for configuration loading

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearTamgridEnv unsets every variable Load reads so tests start from a
// known state regardless of the host environment.
func clearTamgridEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"TAMGRID_CONFIG", "TAMGRID_PORT", "TAMGRID_LOG_LEVEL", "GIN_MODE",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "TAMGRID_DISABLE_METRICS",
		"TAMGRID_MODERATION_MODEL", "TAMGRID_DISABLE_MODERATION",
		"TAMGRID_RATE_RPS", "TAMGRID_RATE_BURST",
		"ANTHROPIC_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY", "XAI_API_KEY",
	}
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearTamgridEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12120, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.EnableMetrics)
	assert.Equal(t, float64(5), cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Empty(t, cfg.Credentials)
	assert.False(t, cfg.Moderation.Disabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearTamgridEnv(t)
	t.Setenv("TAMGRID_PORT", "9000")
	t.Setenv("TAMGRID_LOG_LEVEL", "debug")
	t.Setenv("TAMGRID_RATE_RPS", "0")
	t.Setenv("TAMGRID_DISABLE_MODERATION", "true")
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, float64(0), cfg.RateLimit.RPS)
	assert.True(t, cfg.Moderation.Disabled)
	assert.Equal(t, map[string]string{
		"groq":   "gsk_test",
		"openai": "sk-test",
	}, cfg.Credentials)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearTamgridEnv(t)

	path := filepath.Join(t.TempDir(), "tamgrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 8088
log_level: warn
moderation:
  model: llama-guard-4
rate_limit:
  rps: 2
  burst: 4
`), 0o600))
	t.Setenv("TAMGRID_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "llama-guard-4", cfg.Moderation.Model)
	assert.Equal(t, float64(2), cfg.RateLimit.RPS)
	assert.Equal(t, 4, cfg.RateLimit.Burst)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	clearTamgridEnv(t)

	path := filepath.Join(t.TempDir(), "tamgrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 8088\n"), 0o600))
	t.Setenv("TAMGRID_CONFIG", path)
	t.Setenv("TAMGRID_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	clearTamgridEnv(t)
	t.Setenv("TAMGRID_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	clearTamgridEnv(t)

	path := filepath.Join(t.TempDir(), "tamgrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [not an int\n"), 0o600))
	t.Setenv("TAMGRID_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}
