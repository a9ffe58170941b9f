package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/shopfront/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, []string{DefaultAPIKey}, cfg.Auth.APIKeys)
	assert.Equal(t, BackendMemory, cfg.Session.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Session.Timeout)
	assert.Equal(t, 60, cfg.Session.MaxRequests)
	assert.Equal(t, time.Minute, cfg.Session.Window)
	assert.Equal(t, SourceConfig, cfg.Catalog.Source)
	assert.NotEmpty(t, cfg.Catalog.Items)
	require.Len(t, cfg.Seed.Orders, 1)
	assert.Equal(t, "ORD12345", cfg.Seed.Orders[0].ID)
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "127.0.0.1:9090"
  static_path: "/srv/www"
  shutdown_timeout: "3s"

auth:
  api_keys: ["k1", "k2"]
  jwt_secret: "s3cret"
  token_ttl: "2h"

session:
  backend: "redis"
  redis_addr: "localhost:6379"
  timeout: "10m"
  window: "30s"
  max_requests: 5
  janitor_interval: "15s"

catalog:
  source: "config"
  items:
    - {id: X1, name: Widget, category: Tools, price: 2.5}

seed:
  orders:
    - id: ORD1
      email: a@example.com
      status: Delivered
      created_at: 2025-01-02T03:04:05Z
      items:
        - {item_id: X1, name: Widget, price: 2.5, quantity: 4}

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.HTTPAddr)
	assert.Equal(t, "/srv/www", cfg.Server.StaticPath)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Auth.APIKeys)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, BackendRedis, cfg.Session.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Session.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Session.Window)
	assert.Equal(t, 5, cfg.Session.MaxRequests)
	assert.Equal(t, 15*time.Second, cfg.Session.JanitorInterval)
	assert.Equal(t, []models.Item{{ID: "X1", Name: "Widget", Category: "Tools", Price: 2.5}}, cfg.Catalog.Items)
	assert.Equal(t, "json", cfg.Logging.Format)

	require.Len(t, cfg.Seed.Orders, 1)
	o := cfg.Seed.Orders[0]
	assert.Equal(t, models.OrderStatusDelivered, o.Status)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), o.CreatedAt.UTC())
	assert.Equal(t, 4, o.Items[0].Quantity)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_SHOP_KEY", "from-env")
	path := writeConfig(t, `
auth:
  api_keys: ["${TEST_SHOP_KEY}"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"from-env"}, cfg.Auth.APIKeys)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: ":1111"
session:
  timeout: "5m"
`)
	t.Setenv("HTTP_ADDR", ":2222")
	t.Setenv("API_KEYS", "a,b")
	t.Setenv("SESSION_TIMEOUT", "45m")
	t.Setenv("SESSION_MAX_REQUESTS", "7")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":2222", cfg.Server.HTTPAddr)
	assert.Equal(t, []string{"a", "b"}, cfg.Auth.APIKeys)
	assert.Equal(t, 45*time.Minute, cfg.Session.Timeout)
	assert.Equal(t, 7, cfg.Session.MaxRequests)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "server: [", "parsing config file"},
		{"bad duration", "session:\n  timeout: \"soon\"\n", "session.timeout"},
		{"no keys", "auth:\n  api_keys: []\n", "auth.api_keys"},
		{"blank key", "auth:\n  api_keys: [\"\"]\n", "auth.api_keys"},
		{"unknown backend", "session:\n  backend: etcd\n", "session.backend"},
		{"redis without addr", "session:\n  backend: redis\n", "session.redis_addr"},
		{"sqlite without path", "catalog:\n  source: sqlite\n", "catalog.path"},
		{"unknown source", "catalog:\n  source: csv\n", "catalog.source"},
		{"bad format", "logging:\n  format: xml\n", "logging.format"},
		{"zero max requests", "session:\n  max_requests: -1\n", "session.max_requests"},
		{"seed order without email", "seed:\n  orders:\n    - id: O1\n", "seed.orders[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_A", "alpha")
	assert.Equal(t, "x alpha y ", expandEnvVars("x ${TEST_A} y ${TEST_UNSET_VAR_XYZ}"))
}
