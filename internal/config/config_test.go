package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.GracePeriod, cfg.GracePeriod)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, 300*time.Millisecond, cfg.GracePeriod)
	assert.Equal(t, 3*time.Second, cfg.NoticeDuration)
	assert.Equal(t, "KSh", cfg.Currency)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /tmp/ironlist-test
grace_period: 500ms
currency: USD
storage:
  driver: memory
`), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ironlist-test", cfg.DataDir)
	assert.Equal(t, 500*time.Millisecond, cfg.GracePeriod)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/ironlist-test/ironlist.db", cfg.DBPath())
	assert.Equal(t, "/tmp/ironlist-test/products.json", cfg.Catalog())
	assert.Equal(t, 3*time.Second, cfg.NoticeDuration, "unset keys keep defaults")
}

func TestLoadFromEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("currency: USD\n"), 0644))

	t.Setenv("IRONLIST_CURRENCY", "EUR")
	t.Setenv("IRONLIST_STORAGE_DRIVER", "redis")
	t.Setenv("IRONLIST_STORAGE_REDIS_ADDR", "cache:6380")
	t.Setenv("IRONLIST_GRACE_PERIOD", "1s")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "cache:6380", cfg.Storage.RedisAddr)
	assert.Equal(t, time.Second, cfg.GracePeriod)
}

func TestLoadFromInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grace_period: [nope"), 0644))

	_, err := LoadFrom(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "postgres" }, wantErr: "unknown storage driver"},
		{name: "zero grace", mutate: func(c *Config) { c.GracePeriod = 0 }, wantErr: "grace_period"},
		{name: "negative notice", mutate: func(c *Config) { c.NoticeDuration = -time.Second }, wantErr: "notice_duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Currency = "USD"
	cfg.GracePeriod = 750 * time.Millisecond
	require.NoError(t, cfg.SaveTo(path))

	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, 750*time.Millisecond, got.GracePeriod)
}
