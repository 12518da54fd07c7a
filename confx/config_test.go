package confx

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv 把相关环境变量置空，TransformFunc 会跳过空值
func clearEnv(t *testing.T) {
	t.Helper()
	for name := range envKeys {
		t.Setenv(name, "")
	}
}

func missing(t *testing.T) []Option {
	dir := t.TempDir()
	return []Option{
		WithConfigFile(filepath.Join(dir, "none.yaml")),
		WithEnvFile(filepath.Join(dir, "none.env")),
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(missing(t)...)
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 3, cfg.API.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "assistdash", cfg.Metrics.Namespace)
	assert.True(t, cfg.Log.Console)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
api:
  base_url: http://from-yaml:8000
  max_retries: 5
  timeout: 3s
log:
  level: debug
`), 0o644))

	t.Setenv("API_BASE_URL", "http://from-env:9000")

	cfg, err := Load(WithConfigFile(yamlPath), WithEnvFile(""))
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:9000", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.API.MaxRetries)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestDotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv("METRICS_NAMESPACE"))
	require.NoError(t, os.Unsetenv("API_MAX_RETRIES"))
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("METRICS_NAMESPACE=probe\nAPI_MAX_RETRIES=1\n"), 0o644))
	t.Cleanup(func() {
		_ = os.Unsetenv("METRICS_NAMESPACE")
		_ = os.Unsetenv("API_MAX_RETRIES")
	})

	cfg, err := Load(WithConfigFile(""), WithEnvFile(envPath))
	require.NoError(t, err)
	assert.Equal(t, "probe", cfg.Metrics.Namespace)
	assert.Equal(t, 1, cfg.API.MaxRetries)
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"relative base url", "API_BASE_URL", "not a url"},
		{"negative retries", "API_MAX_RETRIES", "-1"},
		{"bad level", "LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load(missing(t)...)
			assert.Error(t, err)
		})
	}
}
