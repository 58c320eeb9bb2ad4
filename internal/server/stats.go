package server

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"lumo/internal/storage"
)

// StatsResponse is the JSON response for storage stats.
type StatsResponse struct {
	Database  DatabaseStats  `json:"database"`
	Tables    TableStats     `json:"tables"`
	Sessions  int64          `json:"sessions"`
	Retention RetentionStats `json:"retention"`
	Cleanup   *CleanupStats  `json:"cleanup,omitempty"`
}

type DatabaseStats struct {
	Driver       string `json:"driver"`
	Path         string `json:"path"`
	SizeBytes    int64  `json:"size_bytes"`
	WALSizeBytes int64  `json:"wal_size_bytes"`
	Size         string `json:"size"`
}

type TableStats struct {
	Metrics       int64 `json:"metrics"`
	Events        int64 `json:"events"`
	Notifications int64 `json:"notifications"`
}

type RetentionStats struct {
	Enabled             bool `json:"enabled"`
	Days                int  `json:"days"`
	CleanupIntervalMins int  `json:"cleanup_interval_mins"`
}

type CleanupStats struct {
	LastRun        string        `json:"last_run"`
	LastDurationMs int64         `json:"last_duration_ms"`
	LastResult     CleanupCounts `json:"last_result"`
}

type CleanupCounts struct {
	EventsDeleted        int64 `json:"events_deleted"`
	MetricsDeleted       int64 `json:"metrics_deleted"`
	NotificationsDeleted int64 `json:"notifications_deleted"`
}

func handleStats(store Store, retentionCfg storage.CleanupConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}

		stats, err := store.Stats(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		resp := StatsResponse{
			Database: DatabaseStats{
				Driver:       string(stats.Driver),
				Path:         stats.DBPath,
				SizeBytes:    stats.DBSizeBytes,
				WALSizeBytes: stats.WALSizeBytes,
				Size:         humanize.IBytes(uint64(stats.DBSizeBytes + stats.WALSizeBytes)),
			},
			Tables: TableStats{
				Metrics:       stats.Tables.Metrics,
				Events:        stats.Tables.Events,
				Notifications: stats.Tables.Notifications,
			},
			Sessions: stats.Sessions,
			Retention: RetentionStats{
				Enabled:             retentionCfg.Enabled(),
				Days:                retentionCfg.RetentionDays,
				CleanupIntervalMins: retentionCfg.CleanupIntervalMins,
			},
		}

		if stats.LastCleanup != nil {
			resp.Cleanup = &CleanupStats{
				LastRun:        stats.LastCleanup.Timestamp.Format(time.RFC3339),
				LastDurationMs: stats.LastCleanup.Duration.Milliseconds(),
				LastResult: CleanupCounts{
					EventsDeleted:        stats.LastCleanup.EventsDeleted,
					MetricsDeleted:       stats.LastCleanup.MetricsDeleted,
					NotificationsDeleted: stats.LastCleanup.NotificationsDeleted,
				},
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
