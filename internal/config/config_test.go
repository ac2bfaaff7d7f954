package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTestConfigWithDefaults(t *testing.T) {
	cfg, err := Load("test", "")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/api/v1/ai", cfg.Server.APIPrefix)
	assert.Equal(t, 10, cfg.AI.CatalogTimeout)
	assert.Equal(t, 10, cfg.AI.StreamDebounceMs)
	assert.Equal(t, 0, cfg.AI.ListCacheTTL)
	assert.Equal(t, "aiplugin", cfg.Auth.Issuer)
	assert.Same(t, cfg, Get())
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\nredis:\n  enabled: false\n"), 0o600))

	t.Setenv("APP_SERVER_PORT", "9100")
	t.Setenv("APP_REDIS_ENABLED", "true")
	t.Setenv("APP_WORKER_SYNC_CRON", "@every 1h")

	cfg, err := Load("ignored", path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "@every 1h", cfg.Worker.SyncCron)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("test", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "ai", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=ai sslmode=disable", c.GetDSN())
}
