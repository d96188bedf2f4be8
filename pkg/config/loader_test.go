package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
grpc:
  host: 127.0.0.1
  port: 50052
web:
  port: 8080
  debug: true
agent:
  name: 测试助手
  max_steps: 5
  tool_timeout: 10
default_model: gpt-4o-mini
models:
  gpt-4o-mini:
    provider: openai
    api_key: sk-live
    temperature: 0.3
  claude-3-5-sonnet:
    provider: anthropic
    model: claude-3-5-sonnet-20241022
    api_key: YOUR_ANTHROPIC_KEY
  ollama-llama3:
    provider: ollama
    model: llama3
    api_base: http://localhost:11434/v1
session:
  ttl: 3600
  reaper_interval: 60s
`

func writeTestConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInitialize(t *testing.T) {
	path := writeTestConfig(t, "wayfarer.yaml", testYAML)

	ctx := context.Background()
	cfg, err := Initialize(ctx, path)

	require.NoError(t, err)
	require.NotNil(t, cfg)

	// User values override defaults
	assert.Equal(t, "127.0.0.1:50052", cfg.GRPC.Addr())
	assert.Equal(t, "127.0.0.1:50052", cfg.GRPC.DialAddr())
	assert.Equal(t, "0.0.0.0:8080", cfg.Web.Addr())
	assert.True(t, cfg.Web.Debug)
	assert.Equal(t, "测试助手", cfg.Agent.Name)
	assert.Equal(t, 5, cfg.Agent.MaxSteps)
	assert.Equal(t, 10*time.Second, cfg.Agent.ToolTimeout.Std())

	// Unset values keep built-in defaults
	assert.Equal(t, "react", cfg.Agent.Mode)
	assert.Equal(t, DefaultAgentVersion, cfg.Agent.Version)
	assert.Equal(t, 120*time.Second, cfg.Web.StreamTimeout.Std())

	// Durations accept both numeric-seconds and string forms
	assert.Equal(t, time.Hour, cfg.Session.TTL.Std())
	assert.Equal(t, time.Minute, cfg.Session.ReaperInterval.Std())

	// Model registry
	assert.Equal(t, "gpt-4o-mini", cfg.DefaultModel)
	require.Equal(t, 3, cfg.ModelRegistry.Len())
	m, err := cfg.GetModel("claude-3-5-sonnet")
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-sonnet-20241022", m.ModelName())
	assert.Equal(t, "claude-3-5-sonnet", m.DisplayName())
	o, err := cfg.GetModel("ollama-llama3")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434/v1", o.APIBase)

	d, err := cfg.DefaultModelConfig()
	require.NoError(t, err)
	assert.Equal(t, 0.3, d.Temperature)

	stats := cfg.Stats()
	assert.Equal(t, 3, stats.Models)
	assert.Equal(t, 1, stats.ActiveModels) // placeholder keys excluded
}

func TestInitializeConfigNotFound(t *testing.T) {
	ctx := context.Background()
	_, err := Initialize(ctx, "/nonexistent/wayfarer.yaml")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestInitializeInvalidYAML(t *testing.T) {
	path := writeTestConfig(t, "wayfarer.yaml", `{{{`)

	ctx := context.Background()
	_, err := Initialize(ctx, path)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestInitializeValidationFailure(t *testing.T) {
	path := writeTestConfig(t, "wayfarer.yaml", `
agent:
  max_steps: 0
models:
  m:
    api_key: sk-x
`)

	ctx := context.Background()
	_, err := Initialize(ctx, path)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, err.Error(), "max_steps")
}

func TestInitializeNoModels(t *testing.T) {
	path := writeTestConfig(t, "wayfarer.yaml", `
web:
  port: 8000
`)

	ctx := context.Background()
	_, err := Initialize(ctx, path)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoModels)
}

func TestInitializeJSONFallback(t *testing.T) {
	dir := t.TempDir()
	jsonConfig := `{
  "grpc": {"port": 50099},
  "models": {"json-model": {"api_key": "sk-json"}}
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wayfarer.json"), []byte(jsonConfig), 0644))

	// Point at the missing .yaml; the loader falls back to the .json sibling.
	ctx := context.Background()
	cfg, err := Initialize(ctx, filepath.Join(dir, "wayfarer.yaml"))

	require.NoError(t, err)
	assert.Equal(t, 50099, cfg.GRPC.Port)
	assert.Equal(t, "json-model", cfg.DefaultModel)
	assert.Equal(t, filepath.Join(dir, "wayfarer.json"), cfg.ConfigPath())
}

func TestInitializeDefaultModelResolution(t *testing.T) {
	t.Run("falls back to first active profile", func(t *testing.T) {
		path := writeTestConfig(t, "wayfarer.yaml", `
models:
  zz-model:
    api_key: sk-zz
  aa-model:
    api_key: sk-aa
  placeholder:
    api_key: YOUR_KEY
`)
		cfg, err := Initialize(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "aa-model", cfg.DefaultModel)
	})

	t.Run("unknown default rejected", func(t *testing.T) {
		path := writeTestConfig(t, "wayfarer.yaml", `
default_model: missing
models:
  real-model:
    api_key: sk-x
`)
		_, err := Initialize(context.Background(), path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrModelNotFound)
	})

	t.Run("inactive profiles still resolvable", func(t *testing.T) {
		// A registry of placeholder-only profiles resolves by id so that
		// startup fails later with a clear auth error, not a nil model.
		path := writeTestConfig(t, "wayfarer.yaml", `
models:
  placeholder:
    api_key: YOUR_KEY
`)
		cfg, err := Initialize(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "placeholder", cfg.DefaultModel)
	})
}

func TestInitializeEnvExpansion(t *testing.T) {
	t.Setenv("WAYFARER_TEST_KEY", "sk-from-env")

	path := writeTestConfig(t, "wayfarer.yaml", `
models:
  env-model:
    api_key: ${WAYFARER_TEST_KEY}
  unset-model:
    api_key: ${WAYFARER_TEST_UNSET}
`)

	cfg, err := Initialize(context.Background(), path)
	require.NoError(t, err)

	m, err := cfg.GetModel("env-model")
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", m.APIKey)
	assert.True(t, m.Active())

	// Unresolved placeholder survives verbatim and marks the profile inactive
	u, err := cfg.GetModel("unset-model")
	require.NoError(t, err)
	assert.Equal(t, "${WAYFARER_TEST_UNSET}", u.APIKey)
	assert.False(t, u.Active())
}
