package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lumo/internal/telemetry"
)

const sessionColumns = `id, start_time, end_time, duration_ms, event_count,
	api_request_count, error_count, tool_use_count, prompt_count,
	total_cost_usd, total_input_tokens, total_output_tokens, total_cache_read_tokens,
	account_uuid, organization_id, terminal_type, app_version`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (telemetry.Session, error) {
	var s telemetry.Session
	err := row.Scan(&s.ID, &s.StartTime, &s.EndTime, &s.DurationMs, &s.EventCount,
		&s.APIRequestCount, &s.ErrorCount, &s.ToolUseCount, &s.PromptCount,
		&s.TotalCostUSD, &s.TotalInputTokens, &s.TotalOutputTokens, &s.TotalCacheReadTokens,
		&s.AccountUUID, &s.OrganizationID, &s.TerminalType, &s.AppVersion)
	return s, err
}

// FindSessions pages through sessions, most recently started first.
func (s *Storage) FindSessions(ctx context.Context, limit, offset int) ([]telemetry.Session, error) {
	return s.querySessions(ctx, "ORDER BY start_time DESC, id LIMIT ? OFFSET ?", limit, offset)
}

// FindSession returns one session or ErrNotFound.
func (s *Storage) FindSession(ctx context.Context, id string) (*telemetry.Session, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &sess, nil
}

// FindSessionsByTimeRange returns sessions overlapping [start, end] (unix ms).
func (s *Storage) FindSessionsByTimeRange(ctx context.Context, start, end int64) ([]telemetry.Session, error) {
	return s.querySessions(ctx, "WHERE start_time <= ? AND end_time >= ? ORDER BY start_time DESC, id", end, start)
}

func (s *Storage) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// SessionsSummary totals cost, tokens and activity across every session.
func (s *Storage) SessionsSummary(ctx context.Context) (*telemetry.SessionsSummary, error) {
	var sum telemetry.SessionsSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT
			CAST(COUNT(*) AS BIGINT),
			CAST(COALESCE(SUM(total_cost_usd), 0) AS DOUBLE),
			CAST(COALESCE(SUM(total_input_tokens), 0) AS BIGINT),
			CAST(COALESCE(SUM(total_output_tokens), 0) AS BIGINT),
			CAST(COALESCE(SUM(api_request_count), 0) AS BIGINT),
			CAST(COALESCE(SUM(error_count), 0) AS BIGINT),
			CAST(COALESCE(SUM(tool_use_count), 0) AS BIGINT)
		FROM sessions`,
	).Scan(&sum.SessionCount, &sum.TotalCostUSD, &sum.TotalInputTokens, &sum.TotalOutputTokens,
		&sum.TotalAPIRequests, &sum.TotalErrors, &sum.TotalToolUses)
	if err != nil {
		return nil, fmt.Errorf("sessions summary: %w", err)
	}
	return &sum, nil
}

func (s *Storage) querySessions(ctx context.Context, clause string, args ...any) ([]telemetry.Session, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+sessionColumns+" FROM sessions "+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []telemetry.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}
