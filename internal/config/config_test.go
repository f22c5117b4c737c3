package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "static", cfg.Server.StaticDir)

	assert.Equal(t, "https://api.openai.com/v1", cfg.Oracle.BaseURL)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Oracle.Model)
	assert.Empty(t, cfg.Oracle.APIKey)

	assert.Equal(t, 7, cfg.Analysis.MaxDepth)

	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMin)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestDefaultConfigValidates(t *testing.T) {
	assert.Empty(t, DefaultConfig().Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name     string
		modifyFn func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"missing base url", func(c *Config) { c.Oracle.BaseURL = "" }},
		{"missing model", func(c *Config) { c.Oracle.Model = "" }},
		{"zero depth", func(c *Config) { c.Analysis.MaxDepth = 0 }},
		{"bad rate limit", func(c *Config) { c.RateLimit.RequestsPerMin = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modifyFn(cfg)
			assert.NotEmpty(t, cfg.Validate())
		})
	}
}

func TestManagerLoadWithoutFile(t *testing.T) {
	m := NewManager("")
	require.NoError(t, m.Load())
	require.NoError(t, m.Validate())

	assert.Equal(t, 8080, m.Get().Server.Port)
}

func TestManagerLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
oracle:
  base_url: https://openrouter.ai/api/v1
  model: openai/gpt-4o-mini
analysis:
  max_depth: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	m := NewManager(path)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.Oracle.BaseURL)
	assert.Equal(t, "openai/gpt-4o-mini", cfg.Oracle.Model)
	assert.Equal(t, 5, cfg.Analysis.MaxDepth)
	// Untouched sections keep their defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestManagerMissingFileUsesDefaults(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, m.Load())
	assert.Equal(t, 8080, m.Get().Server.Port)
}

func TestManagerAIEnvOverrides(t *testing.T) {
	t.Setenv("AI_BASE_URL", "https://openrouter.ai/api/v1")
	t.Setenv("AI_API_KEY", "sk-or-test-1234567890")
	t.Setenv("AI_MODEL_ID", "anthropic/claude-3-haiku")

	m := NewManager("")
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.Oracle.BaseURL)
	assert.Equal(t, "sk-or-test-1234567890", cfg.Oracle.APIKey)
	assert.Equal(t, "anthropic/claude-3-haiku", cfg.Oracle.Model)
}

func TestManagerPrefixedEnv(t *testing.T) {
	t.Setenv("FIVEWHYS_SERVER_PORT", "9999")

	m := NewManager("")
	require.NoError(t, m.Load())
	assert.Equal(t, 9999, m.Get().Server.Port)
}
