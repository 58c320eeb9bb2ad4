package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevels(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   zerolog.Level
	}{
		{"default", Config{}, zerolog.InfoLevel},
		{"explicit level", Config{Level: "warn"}, zerolog.WarnLevel},
		{"debug wins", Config{Level: "error", Debug: true}, zerolog.DebugLevel},
		{"stdout pretty", Config{Level: "info", Output: "stdout", Pretty: true}, zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, Init(tt.config))
			assert.Equal(t, tt.want, GetLogger().GetLevel())
		})
	}
}

func TestInitRejectsBadConfig(t *testing.T) {
	require.NoError(t, Init(Config{Level: "debug"}))

	assert.Error(t, Init(Config{Level: "loud"}))
	assert.Error(t, Init(Config{Output: "syslog"}))
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())
}

func TestWithComponent(t *testing.T) {
	require.NoError(t, Init(Config{Level: "info"}))
	var buf bytes.Buffer
	SetOutput(&buf)

	l := WithComponent("storage")
	l.Info().Str("driver", "sqlite").Msg("opened")
	Debug().Msg("dropped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "storage", entry["component"])
	assert.Equal(t, "sqlite", entry["driver"])
	assert.Equal(t, "opened", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "time")
}
