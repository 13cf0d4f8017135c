package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("server:\n  port: 9090\n"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.AI.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.AI.Retry.BaseDelay)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 2048, cfg.AI.MaxTokens)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 30, cfg.RateLimit.Capacity)
}

func TestParse_FullFile(t *testing.T) {
	raw := `
auth:
  apiKeys:
    acme: secret-1
database:
  driver: postgres
  host: db
  port: 5432
  user: board
  password: pw
  name: boardroom
ai:
  provider: openrouter
  model: gpt-4o-mini
  timeout: 30s
  surfaceQuotaErrors: true
  retry:
    maxAttempts: 2
    baseDelay: 500ms
redis:
  enabled: true
  addr: localhost:6379
`
	cfg, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "secret-1", cfg.Auth.APIKeys["acme"])
	assert.Equal(t, "openrouter", cfg.AI.Provider)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.True(t, cfg.AI.SurfaceQuotaErrors)
	assert.Equal(t, 2, cfg.AI.Retry.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.AI.Retry.BaseDelay)
	assert.Equal(t, "host=db port=5432 user=board password=pw dbname=boardroom sslmode=disable", cfg.PostgresDSN())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bad yaml", "server: [1"},
		{"unknown driver", "database:\n  driver: sqlite\n"},
		{"minio without bucket", "minio:\n  enabled: true\n"},
		{"redis without addr", "redis:\n  enabled: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg, err := Parse([]byte("database:\n  host: h\n  port: 3306\n  user: u\n  password: p\n  name: n\n"))
	require.NoError(t, err)
	assert.Equal(t, "u:p@tcp(h:3306)/n?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(p, []byte("BOARDROOM_TEST_KEY=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("BOARDROOM_TEST_KEY") })

	require.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env"), p))
	assert.Equal(t, "from-file", os.Getenv("BOARDROOM_TEST_KEY"))
}

func TestResolveProvider(t *testing.T) {
	assert.Equal(t, "openai", ResolveProvider(MapEnv{}, "openai"))
	assert.Equal(t, "azure", ResolveProvider(MapEnv{ProviderEnv: "azure"}, "openai"))
	assert.Equal(t, "openai", ResolveProvider(MapEnv{ProviderEnv: ""}, "openai"))
}
