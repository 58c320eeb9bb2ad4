package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lumo/internal/telemetry"
)

const notificationColumns = `id, session_id, hook_event, notification_type, title, message,
	cwd, transcript_path, is_notified, is_read, created_at`

// InsertNotification stores a hook notification and returns its id.
func (s *Storage) InsertNotification(ctx context.Context, n telemetry.NewNotification) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO notifications (
			session_id, hook_event, notification_type, title, message, cwd, transcript_path, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		n.SessionID, n.HookEvent, nullable(n.NotificationType), n.Title, n.Message,
		nullable(n.CWD), nullable(n.TranscriptPath), time.Now().UnixMilli(),
	).Scan(&id)
	if err != nil {
		return 0, NewInfrastructureError("failed to insert notification", err)
	}
	return id, nil
}

// FindUnnotified returns notifications not yet delivered to the desktop, oldest first.
func (s *Storage) FindUnnotified(ctx context.Context) ([]telemetry.Notification, error) {
	return s.queryNotifications(ctx, "WHERE is_notified = FALSE ORDER BY created_at ASC, id ASC")
}

// MarkNotified flags the given notifications as delivered.
func (s *Storage) MarkNotified(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	_, err := s.db.ExecContext(ctx, "UPDATE notifications SET is_notified = TRUE WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	return nil
}

// MarkRead flags one notification as read. It reports false when no
// notification has that id.
func (s *Storage) MarkRead(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE notifications SET is_read = TRUE WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("mark read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark read: %w", err)
	}
	return n > 0, nil
}

// MarkAllRead flags every unread notification as read and returns how many changed.
func (s *Storage) MarkAllRead(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE notifications SET is_read = TRUE WHERE is_read = FALSE")
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return res.RowsAffected()
}

// FindRecentNotifications pages through notifications, newest first.
func (s *Storage) FindRecentNotifications(ctx context.Context, limit, offset int) ([]telemetry.Notification, error) {
	return s.queryNotifications(ctx, "ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?", limit, offset)
}

func (s *Storage) UnreadCount(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications WHERE is_read = FALSE").Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

func (s *Storage) queryNotifications(ctx context.Context, clause string, args ...any) ([]telemetry.Notification, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+notificationColumns+" FROM notifications "+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []telemetry.Notification
	for rows.Next() {
		var n telemetry.Notification
		err := rows.Scan(&n.ID, &n.SessionID, &n.HookEvent, &n.NotificationType, &n.Title, &n.Message,
			&n.CWD, &n.TranscriptPath, &n.Notified, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
