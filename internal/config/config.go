package config

import (
	"os"
	"path/filepath"

	"lumo/internal/logger"
)

const (
	DefaultAddress             = "127.0.0.1:4318"
	DefaultDriver              = "sqlite"
	DefaultCleanupIntervalMins = 60
	DefaultMaxConcurrentIngest = 16
	DefaultMaxConcurrentQuery  = 4
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     logger.Config `yaml:"log"`
}

type ServerConfig struct {
	Address             string `yaml:"address"`
	MaxConcurrentIngest int    `yaml:"max_concurrent_ingest"`
	MaxConcurrentQuery  int    `yaml:"max_concurrent_query"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	// RetentionDays of zero keeps data forever.
	RetentionDays       int `yaml:"retention_days"`
	CleanupIntervalMins int `yaml:"cleanup_interval_mins"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:             DefaultAddress,
			MaxConcurrentIngest: DefaultMaxConcurrentIngest,
			MaxConcurrentQuery:  DefaultMaxConcurrentQuery,
		},
		Storage: StorageConfig{
			Driver:              DefaultDriver,
			Path:                filepath.Join(HomeDir(), "lumo.db"),
			CleanupIntervalMins: DefaultCleanupIntervalMins,
		},
		Log: logger.Config{Level: "info"},
	}
}

// HomeDir is ~/.lumo, or ./.lumo when the home directory is unknown.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lumo"
	}
	return filepath.Join(home, ".lumo")
}
