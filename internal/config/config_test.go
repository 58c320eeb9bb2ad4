package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty directory and clears every LUMO_* variable
// for the duration of the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		EnvFileVar, "LUMO_SERVER_ADDRESS", "LUMO_DB_DRIVER", "LUMO_DB_PATH", "LUMO_LOG_LEVEL",
		"LUMO_RETENTION_DAYS", "LUMO_MAX_CONCURRENT_INGEST", "LUMO_MAX_CONCURRENT_QUERY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAddress, cfg.Server.Address)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, filepath.Join(home, ".lumo", "lumo.db"), cfg.Storage.Path)
	assert.Zero(t, cfg.Storage.RetentionDays)
	assert.Equal(t, 60, cfg.Storage.CleanupIntervalMins)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadYAMLWithExpansion(t *testing.T) {
	isolate(t)
	t.Setenv("LUMO_TEST_DATA", "/var/lib/lumo")

	path := writeFile(t, t.TempDir(), "lumo.yaml", `
server:
  address: 127.0.0.1:14318
storage:
  driver: duckdb
  path: ${LUMO_TEST_DATA}/lumo.duckdb
  retention_days: 30
log:
  level: debug
  pretty: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:14318", cfg.Server.Address)
	assert.Equal(t, "duckdb", cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/lumo/lumo.duckdb", cfg.Storage.Path)
	assert.Equal(t, 30, cfg.Storage.RetentionDays)
	assert.Equal(t, 60, cfg.Storage.CleanupIntervalMins, "unset keys keep defaults")
	assert.Equal(t, DefaultMaxConcurrentIngest, cfg.Server.MaxConcurrentIngest)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	path := writeFile(t, t.TempDir(), "lumo.yaml", "server:\n  address: 127.0.0.1:1\n")

	t.Setenv("LUMO_SERVER_ADDRESS", "0.0.0.0:4318")
	t.Setenv("LUMO_DB_PATH", "/tmp/other.db")
	t.Setenv("LUMO_RETENTION_DAYS", "14")
	t.Setenv("LUMO_MAX_CONCURRENT_QUERY", "2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:4318", cfg.Server.Address)
	assert.Equal(t, "/tmp/other.db", cfg.Storage.Path)
	assert.Equal(t, 14, cfg.Storage.RetentionDays)
	assert.Equal(t, 2, cfg.Server.MaxConcurrentQuery)
}

func TestLoadEnvOverrideNotANumber(t *testing.T) {
	isolate(t)
	t.Setenv("LUMO_RETENTION_DAYS", "a week")

	_, err := Load("")
	assert.ErrorContains(t, err, "LUMO_RETENTION_DAYS")
}

func TestLoadDotenv(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".lumo"), 0o755))
	writeFile(t, filepath.Join(home, ".lumo"), ".env", "LUMO_DB_DRIVER=duckdb\nLUMO_LOG_LEVEL=warn\n")
	t.Setenv("LUMO_LOG_LEVEL", "error")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "duckdb", cfg.Storage.Driver)
	assert.Equal(t, "error", cfg.Log.Level, "process environment wins over the dotenv file")
}

func TestLoadExplicitEnvFileMissing(t *testing.T) {
	isolate(t)
	t.Setenv(EnvFileVar, filepath.Join(t.TempDir(), "missing.env"))

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config file")

	bad := writeFile(t, t.TempDir(), "bad.yaml", "server: [unclosed")
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parse yaml")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"duckdb", func(c *Config) { c.Storage.Driver = "duckdb" }, ""},
		{"empty address", func(c *Config) { c.Server.Address = "" }, "server.address"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "postgres" }, "unknown driver"},
		{"negative retention", func(c *Config) { c.Storage.RetentionDays = -1 }, "retention_days"},
		{"zero ingest limit", func(c *Config) { c.Server.MaxConcurrentIngest = 0 }, "max_concurrent_ingest"},
		{"negative query limit", func(c *Config) { c.Server.MaxConcurrentQuery = -3 }, "max_concurrent_query"},
		{"retention without interval", func(c *Config) {
			c.Storage.RetentionDays = 7
			c.Storage.CleanupIntervalMins = 0
		}, "cleanup_interval_mins"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
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
