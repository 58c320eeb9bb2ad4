package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lumo/internal/telemetry"
)

// InsertEvents stores normalized events in one batch and stamps them with
// the current received_at.
func (s *Storage) InsertEvents(ctx context.Context, events []telemetry.Event) (*StoreResult, error) {
	receivedAt := formatReceivedAt(time.Now())

	rows := make([][]any, len(events))
	labels := make([]string, len(events))
	for i, e := range events {
		rows[i] = eventRow(e, receivedAt)
		labels[i] = e.Name + "/" + e.ID
	}

	result, err := s.insertRows(ctx, "events", eventColumns, rows, labels)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("accepted", result.Accepted).Int("rejected", result.Rejected).Msg("events inserted")
	return result, nil
}

// EventsBySession returns the events of one session, oldest first.
// A limit of zero or less returns every event.
func (s *Storage) EventsBySession(ctx context.Context, sessionID string, limit int) ([]telemetry.Event, error) {
	query := "SELECT " + strings.Join(eventColumns, ", ") +
		" FROM events WHERE session_id = ? ORDER BY timestamp ASC, event_sequence ASC"
	args := []any{sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []telemetry.Event
	for rows.Next() {
		var e telemetry.Event
		if err := rows.Scan(eventFields(&e)...); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
