package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "memory", cfg.Artifact.Backend)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, "https://api.meshy.ai/openapi/v1", cfg.Providers.Meshy.BaseURL)
	assert.Equal(t, "dall-e-3", cfg.Providers.OpenAI.ImageModel)
	assert.Equal(t, "gpt-4o-mini", cfg.Providers.OpenAI.TranslateModel)
}

func TestLoader_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
server:
  http_port: 9000
artifact:
  backend: fs
  dir: /tmp/artifacts
providers:
  meshy:
    api_key: test-key
    timeout: 90s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, "fs", cfg.Artifact.Backend)
	assert.Equal(t, "/tmp/artifacts", cfg.Artifact.Dir)
	assert.Equal(t, "test-key", cfg.Providers.Meshy.APIKey)
	assert.Equal(t, 90*time.Second, cfg.Providers.Meshy.Timeout)
	// untouched defaults survive the merge
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
}

func TestLoader_EnvOverride(t *testing.T) {
	t.Setenv("P2M_SERVER_HTTP_PORT", "8888")
	t.Setenv("P2M_PROVIDERS_OPENAI_API_KEY", "sk-env")
	t.Setenv("P2M_PROVIDERS_OPENAI_TIMEOUT", "45s")
	t.Setenv("P2M_RATE_LIMIT_ENABLED", "false")
	t.Setenv("P2M_SERVER_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 8888, cfg.Server.HTTPPort)
	assert.Equal(t, "sk-env", cfg.Providers.OpenAI.APIKey)
	assert.Equal(t, 45*time.Second, cfg.Providers.OpenAI.Timeout)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoader_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  http_port: 9000\n"), 0o600))
	t.Setenv("P2M_SERVER_HTTP_PORT", "9001")

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Server.HTTPPort)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad http port", func(c *Config) { c.Server.HTTPPort = 0 }, "http_port"},
		{"bad artifact backend", func(c *Config) { c.Artifact.Backend = "s3" }, "artifact backend"},
		{"fs without dir", func(c *Config) { c.Artifact.Backend = "fs"; c.Artifact.Dir = "" }, "requires dir"},
		{"bad session backend", func(c *Config) { c.Session.Backend = "mongo" }, "session backend"},
		{"bad driver", func(c *Config) { c.Session.Backend = "database"; c.Database.Driver = "oracle" }, "database driver"},
		{"jwt without secret", func(c *Config) { c.Auth.JWT.Enabled = true }, "secret"},
		{"telemetry without endpoint", func(c *Config) { c.Telemetry.Enabled = true; c.Telemetry.OTLPEndpoint = "" }, "otlp_endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
