package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"lumo/internal/config"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"LUMO_CONFIG", config.EnvFileVar, "LUMO_SERVER_ADDRESS", "LUMO_DB_DRIVER", "LUMO_DB_PATH", "LUMO_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}

// loadWith runs the app with args and returns the config its action built.
func loadWith(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	var (
		cfg *config.Config
		err error
	)
	app := newApp()
	app.Action = func(c *cli.Context) error {
		cfg, err = loadConfig(c)
		return nil
	}
	require.NoError(t, app.Run(append([]string{"lumod"}, args...)))
	return cfg, err
}

func TestFlagsOverrideConfig(t *testing.T) {
	home := isolateEnv(t)
	path := filepath.Join(home, "lumo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: 127.0.0.1:9000\nstorage:\n  driver: sqlite\n"), 0o600))

	cfg, err := loadWith(t, "-c", path, "--address", "127.0.0.1:4400", "--driver", "duckdb", "--db", "/tmp/x.duckdb", "--log-level", "debug")

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:4400", cfg.Server.Address)
	assert.Equal(t, "duckdb", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/x.duckdb", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestConfigFileWithoutFlags(t *testing.T) {
	home := isolateEnv(t)
	path := filepath.Join(home, "lumo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: 127.0.0.1:9000\n"), 0o600))

	cfg, err := loadWith(t, "--config", path)

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, config.DefaultDriver, cfg.Storage.Driver)
}

func TestInvalidFlagRejected(t *testing.T) {
	isolateEnv(t)

	_, err := loadWith(t, "--driver", "postgres")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	require.NoError(t, app.Run([]string{"lumod", "version"}))

	assert.Equal(t, Version, strings.TrimSpace(out.String()))
}
