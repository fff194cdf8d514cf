package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"credgate/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
	}

	for _, tt := range tests {
		got, err := parseLogLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseLogLevel("verbose")
	assert.ErrorContains(t, err, "unknown log level")
}

func TestNewLogger_JSONByDefault(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger(&buf, config.Log{Level: "info"})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("visible", slog.String("username", "alice"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "alice", entry["username"])
}

func TestNewLogger_Pretty(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger(&buf, config.Log{Pretty: true, Level: "debug"})
	require.NoError(t, err)

	logger.Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}
