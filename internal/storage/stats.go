package storage

import (
	"context"
	"fmt"
	"os"
)

// TableCounts holds the row count of every table.
type TableCounts struct {
	Metrics       int64
	Events        int64
	Notifications int64
}

// Stats describes the database file and its contents.
type Stats struct {
	Driver       Driver
	DBPath       string
	DBSizeBytes  int64
	WALSizeBytes int64
	Tables       TableCounts
	Sessions     int64
	LastCleanup  *CleanupResult
}

func (s *Storage) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{
		Driver:      s.driver,
		DBPath:      s.path,
		LastCleanup: s.LastCleanup(),
	}

	counts := []struct {
		table string
		n     *int64
	}{
		{"metrics", &st.Tables.Metrics},
		{"events", &st.Tables.Events},
		{"notifications", &st.Tables.Notifications},
		{"sessions", &st.Sessions},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.n); err != nil {
			return nil, fmt.Errorf("count %s: %w", c.table, err)
		}
	}

	if s.path != "" {
		st.DBSizeBytes = fileSize(s.path)
		st.WALSizeBytes = fileSize(s.walPath())
	}
	return st, nil
}

func (s *Storage) walPath() string {
	if s.driver == DriverDuckDB {
		return s.path + ".wal"
	}
	return s.path + "-wal"
}

// fileSize returns 0 for missing files.
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
