package storage

import (
	"time"

	"lumo/internal/telemetry"
)

// receivedAtLayout is fixed width so received_at compares correctly as text.
const receivedAtLayout = "2006-01-02T15:04:05.000Z"

func formatReceivedAt(t time.Time) string {
	return t.UTC().Format(receivedAtLayout)
}

// nullable unwraps an optional field into a bind value; nil becomes NULL.
// The DuckDB appender rejects pointer arguments, so rows never carry them.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// Column order must match the CREATE TABLE order: the appender binds by position.
var metricColumns = []string{
	"id", "session_id", "name", "timestamp", "value",
	"metric_type", "model", "tool", "decision", "language",
	"account_uuid", "organization_id", "terminal_type", "app_version", "user_id", "user_email",
	"unit", "description", "resource",
	"received_at",
}

func metricRow(m telemetry.Metric, receivedAt string) []any {
	return []any{
		m.ID, m.SessionID, m.Name, m.Timestamp, m.Value,
		nullable(m.MetricType), nullable(m.Model), nullable(m.Tool), nullable(m.Decision), nullable(m.Language),
		nullable(m.AccountUUID), nullable(m.OrganizationID), nullable(m.TerminalType), nullable(m.AppVersion),
		nullable(m.UserID), nullable(m.UserEmail),
		nullable(m.Unit), nullable(m.Description), nullable(m.Resource),
		receivedAt,
	}
}

var eventColumns = []string{
	"id", "session_id", "name", "timestamp",
	"duration_ms", "success", "error", "model", "cost_usd",
	"input_tokens", "output_tokens", "cache_read_tokens", "cache_creation_tokens",
	"status_code", "attempt",
	"tool_name", "tool_decision", "decision_source", "tool_parameters",
	"prompt_length", "prompt",
	"account_uuid", "organization_id", "terminal_type", "app_version", "user_id", "user_email",
	"event_sequence", "tool_result_size_bytes",
	"resource", "received_at",
}

func eventRow(e telemetry.Event, receivedAt string) []any {
	return []any{
		e.ID, e.SessionID, e.Name, e.Timestamp,
		nullable(e.DurationMs), nullable(e.Success), nullable(e.Error), nullable(e.Model), nullable(e.CostUSD),
		nullable(e.InputTokens), nullable(e.OutputTokens), nullable(e.CacheReadTokens), nullable(e.CacheCreationTokens),
		nullable(e.StatusCode), nullable(e.Attempt),
		nullable(e.ToolName), nullable(e.ToolDecision), nullable(e.DecisionSource), nullable(e.ToolParameters),
		nullable(e.PromptLength), nullable(e.Prompt),
		nullable(e.AccountUUID), nullable(e.OrganizationID), nullable(e.TerminalType), nullable(e.AppVersion),
		nullable(e.UserID), nullable(e.UserEmail),
		nullable(e.EventSequence), nullable(e.ToolResultSizeBytes),
		nullable(e.Resource), receivedAt,
	}
}

// eventFields returns scan destinations in eventColumns order.
func eventFields(e *telemetry.Event) []any {
	return []any{
		&e.ID, &e.SessionID, &e.Name, &e.Timestamp,
		&e.DurationMs, &e.Success, &e.Error, &e.Model, &e.CostUSD,
		&e.InputTokens, &e.OutputTokens, &e.CacheReadTokens, &e.CacheCreationTokens,
		&e.StatusCode, &e.Attempt,
		&e.ToolName, &e.ToolDecision, &e.DecisionSource, &e.ToolParameters,
		&e.PromptLength, &e.Prompt,
		&e.AccountUUID, &e.OrganizationID, &e.TerminalType, &e.AppVersion, &e.UserID, &e.UserEmail,
		&e.EventSequence, &e.ToolResultSizeBytes,
		&e.Resource, &e.ReceivedAt,
	}
}
