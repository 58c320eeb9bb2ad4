package storage

import (
	"context"
	"fmt"
	"time"

	"lumo/internal/telemetry"
)

// TokenUsageMetric is the metric summed by TokenUsageByModel.
const TokenUsageMetric = "claude_code.token.usage"

// InsertMetrics stores normalized metric points in one batch and stamps
// them with the current received_at.
func (s *Storage) InsertMetrics(ctx context.Context, metrics []telemetry.Metric) (*StoreResult, error) {
	receivedAt := formatReceivedAt(time.Now())

	rows := make([][]any, len(metrics))
	labels := make([]string, len(metrics))
	for i, m := range metrics {
		rows[i] = metricRow(m, receivedAt)
		labels[i] = m.Name + "/" + m.ID
	}

	result, err := s.insertRows(ctx, "metrics", metricColumns, rows, labels)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("accepted", result.Accepted).Int("rejected", result.Rejected).Msg("metrics inserted")
	return result, nil
}

// TokenUsageByModel totals the token usage metric per model and token type.
// Points without a model or type are grouped under "unknown".
func (s *Storage) TokenUsageByModel(ctx context.Context) ([]telemetry.TokenUsageByModel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			COALESCE(model, 'unknown') AS model,
			COALESCE(metric_type, 'unknown') AS token_type,
			CAST(SUM(value) AS DOUBLE) AS total
		FROM metrics
		WHERE name = ?
		GROUP BY COALESCE(model, 'unknown'), COALESCE(metric_type, 'unknown')
		ORDER BY model, token_type`, TokenUsageMetric)
	if err != nil {
		return nil, fmt.Errorf("query token usage: %w", err)
	}
	defer rows.Close()

	var usage []telemetry.TokenUsageByModel
	for rows.Next() {
		var u telemetry.TokenUsageByModel
		if err := rows.Scan(&u.Model, &u.TokenType, &u.Total); err != nil {
			return nil, fmt.Errorf("scan token usage: %w", err)
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}
