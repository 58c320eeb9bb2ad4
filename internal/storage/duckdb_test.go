package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumo/internal/telemetry"
)

func TestDuckDBBackend(t *testing.T) {
	s := openTest(t, DriverDuckDB)
	ctx := context.Background()

	result, err := s.InsertEvents(ctx, []telemetry.Event{
		{ID: "e1", SessionID: "s1", Name: "claude_code.api_request", Timestamp: 1_000,
			CostUSD: ptr(0.5), InputTokens: ptr(int64(10)), StatusCode: ptr(int32(200)), Success: ptr(true)},
		event("e2", "s1", "claude_code.tool_result", 4_000),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Accepted)

	result, err = s.InsertMetrics(ctx, []telemetry.Metric{
		{ID: "m1", SessionID: "s1", Name: TokenUsageMetric, Value: 10, Model: ptr("opus"), MetricType: ptr("input")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)

	events, err := s.EventsBySession(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int32(200), *events[0].StatusCode)
	assert.True(t, *events[0].Success)
	assert.Nil(t, events[1].CostUSD)

	sess, err := s.FindSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(3_000), sess.DurationMs)
	assert.Equal(t, int64(10), sess.TotalInputTokens)
	assert.Equal(t, int64(1), sess.ToolUseCount)

	usage, err := s.TokenUsageByModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, []telemetry.TokenUsageByModel{{Model: "opus", TokenType: "input", Total: 10}}, usage)

	id, err := s.InsertNotification(ctx, newNotification("s1", "Stop"))
	require.NoError(t, err)
	ok, err := s.MarkRead(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	unread, err := s.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
