package config

import "fmt"

func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}

	if c.Server.MaxConcurrentIngest < 1 {
		return fmt.Errorf("server.max_concurrent_ingest must be at least 1, got %d", c.Server.MaxConcurrentIngest)
	}
	if c.Server.MaxConcurrentQuery < 1 {
		return fmt.Errorf("server.max_concurrent_query must be at least 1, got %d", c.Server.MaxConcurrentQuery)
	}

	switch c.Storage.Driver {
	case "sqlite", "duckdb":
	default:
		return fmt.Errorf("storage.driver: unknown driver '%s'", c.Storage.Driver)
	}

	if c.Storage.RetentionDays < 0 {
		return fmt.Errorf("storage.retention_days must not be negative, got %d", c.Storage.RetentionDays)
	}
	if c.Storage.RetentionDays > 0 && c.Storage.CleanupIntervalMins < 1 {
		return fmt.Errorf("storage.cleanup_interval_mins must be at least 1 when retention is enabled")
	}

	return nil
}
