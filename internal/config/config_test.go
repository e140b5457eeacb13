package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "LLM_PROVIDER", "GATEWAY_TIMEOUT", "CACHE_BACKEND", "CACHE_TTL", "SESSION_TTL", "OTEL_ENABLED"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()
	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "gemini", cfg.Ai.LLMProvider)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 60*time.Second, cfg.Ai.GatewayTimeout)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Zero(t, cfg.Session.TTL)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("GATEWAY_TIMEOUT", "15s")
	t.Setenv("CACHE_TTL", "120")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("GO_ENV", "Production")

	cfg := Load()
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "ollama", cfg.Ai.LLMProvider)
	assert.Equal(t, 15*time.Second, cfg.Ai.GatewayTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Tracing.Enabled)
	assert.True(t, cfg.IsProduction())
}

func TestGetEnvAsDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("GATEWAY_TIMEOUT", "soon")
	assert.Equal(t, time.Minute, getEnvAsDuration("GATEWAY_TIMEOUT", time.Minute))
}
