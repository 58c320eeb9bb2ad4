package storage

import (
	"context"
	"time"
)

// CleanupConfig holds retention configuration.
type CleanupConfig struct {
	RetentionDays       int
	CleanupIntervalMins int
}

// Enabled reports whether old rows should be deleted at all.
func (c CleanupConfig) Enabled() bool {
	return c.RetentionDays > 0
}

// CleanupResult contains the outcome of a cleanup run.
type CleanupResult struct {
	Timestamp            time.Time
	Duration             time.Duration
	EventsDeleted        int64
	MetricsDeleted       int64
	NotificationsDeleted int64
}

// Total is the number of rows removed across tables.
func (r *CleanupResult) Total() int64 {
	return r.EventsDeleted + r.MetricsDeleted + r.NotificationsDeleted
}

// StartCleanupWorker runs cleanup once, then on every interval until ctx is
// cancelled. It returns immediately when retention is disabled.
func (s *Storage) StartCleanupWorker(ctx context.Context, cfg CleanupConfig) {
	if !cfg.Enabled() {
		s.log.Info().Msg("retention disabled, cleanup worker not started")
		return
	}

	if cfg.CleanupIntervalMins < 1 {
		cfg.CleanupIntervalMins = 1
	}

	s.log.Info().
		Int("retention_days", cfg.RetentionDays).
		Int("interval_mins", cfg.CleanupIntervalMins).
		Msg("cleanup worker started")

	s.runCleanup(ctx, cfg.RetentionDays, time.Now())

	ticker := time.NewTicker(time.Duration(cfg.CleanupIntervalMins) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("cleanup worker stopped")
			return
		case now := <-ticker.C:
			s.runCleanup(ctx, cfg.RetentionDays, now)
		}
	}
}

// runCleanup deletes events and metrics received more than retentionDays
// before now, plus read notifications created before the same cutoff.
// It returns nil when another run holds the lock or the run failed.
func (s *Storage) runCleanup(ctx context.Context, retentionDays int, now time.Time) *CleanupResult {
	select {
	case s.cleanupRunning <- struct{}{}:
		defer func() { <-s.cleanupRunning }()
	default:
		s.log.Warn().Msg("cleanup already in progress, skipping")
		return nil
	}

	cutoff := now.Add(-time.Duration(retentionDays) * 24 * time.Hour)
	result := &CleanupResult{Timestamp: now}
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("cleanup failed to start transaction")
		return nil
	}

	deletes := []struct {
		table   string
		query   string
		arg     any
		deleted *int64
	}{
		{"events", "DELETE FROM events WHERE received_at < ?", formatReceivedAt(cutoff), &result.EventsDeleted},
		{"metrics", "DELETE FROM metrics WHERE received_at < ?", formatReceivedAt(cutoff), &result.MetricsDeleted},
		{"notifications", "DELETE FROM notifications WHERE is_read = TRUE AND created_at < ?", cutoff.UnixMilli(), &result.NotificationsDeleted},
	}

	for _, d := range deletes {
		res, err := tx.ExecContext(ctx, d.query, d.arg)
		if err != nil {
			s.log.Error().Err(err).Str("table", d.table).Msg("cleanup delete failed")
			tx.Rollback()
			return nil
		}
		*d.deleted, _ = res.RowsAffected()
	}

	if err := tx.Commit(); err != nil {
		s.log.Error().Err(err).Msg("cleanup failed to commit")
		return nil
	}

	if _, err := s.db.ExecContext(ctx, s.checkpointStatement()); err != nil {
		s.log.Warn().Err(err).Msg("cleanup checkpoint failed")
	}

	result.Duration = time.Since(start)
	s.mu.Lock()
	s.lastCleanup = result
	s.mu.Unlock()

	s.log.Info().
		Dur("duration", result.Duration).
		Int64("events", result.EventsDeleted).
		Int64("metrics", result.MetricsDeleted).
		Int64("notifications", result.NotificationsDeleted).
		Msg("cleanup completed")

	return result
}

func (s *Storage) checkpointStatement() string {
	if s.driver == DriverDuckDB {
		return "CHECKPOINT"
	}
	return "PRAGMA wal_checkpoint(TRUNCATE)"
}

// LastCleanup returns the most recent successful cleanup, or nil.
func (s *Storage) LastCleanup() *CleanupResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCleanup
}
