package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvFileVar names an alternative dotenv file.
const EnvFileVar = "LUMO_ENV_FILE"

// Load builds the configuration: defaults, then the YAML file at path (if
// any, with ${VAR} expansion), then LUMO_* environment overrides. A dotenv
// file is read first so its values take part in both expansion and overrides.
func Load(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		expandedData := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFile never overrides variables that are already set.
func loadEnvFile() error {
	path := os.Getenv(EnvFileVar)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(HomeDir(), ".env")
	}

	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}

func applyEnv(cfg *Config) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"LUMO_SERVER_ADDRESS", &cfg.Server.Address},
		{"LUMO_DB_DRIVER", &cfg.Storage.Driver},
		{"LUMO_DB_PATH", &cfg.Storage.Path},
		{"LUMO_LOG_LEVEL", &cfg.Log.Level},
	}
	for _, s := range strs {
		if v, ok := os.LookupEnv(s.key); ok && v != "" {
			*s.dst = v
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"LUMO_RETENTION_DAYS", &cfg.Storage.RetentionDays},
		{"LUMO_MAX_CONCURRENT_INGEST", &cfg.Server.MaxConcurrentIngest},
		{"LUMO_MAX_CONCURRENT_QUERY", &cfg.Server.MaxConcurrentQuery},
	}
	for _, i := range ints {
		v, ok := os.LookupEnv(i.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", i.key, err)
		}
		*i.dst = n
	}
	return nil
}
