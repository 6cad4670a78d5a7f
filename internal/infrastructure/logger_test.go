package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsingest/internal/config"
)

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := NewLogger(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "console",
	}, &buf)
	require.NoError(t, err)
	defer closeFn()

	logger.Info("test message", "key", "value")
	logger.Debug("hidden")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := NewLogger(config.LoggingConfig{
		Level:  "debug",
		Format: "text",
		Output: "console",
	}, &buf)
	require.NoError(t, err)
	defer closeFn()

	logger.Debug("text message", "rows", 3)
	assert.Contains(t, buf.String(), "msg=\"text message\"")
	assert.Contains(t, buf.String(), "rows=3")
}

func TestNewLogger_Both(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	var buf bytes.Buffer
	logger, closeFn, err := NewLogger(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "both",
		FilePath: logFile,
	}, &buf)
	require.NoError(t, err)

	logger.Info("dual")
	require.NoError(t, closeFn())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "\"msg\":\"dual\"")
	assert.Contains(t, buf.String(), "\"msg\":\"dual\"")
}

func TestNewLogger_FileOnly(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "only.log")
	var buf bytes.Buffer
	logger, closeFn, err := NewLogger(config.LoggingConfig{
		Level:    "warn",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}, &buf)
	require.NoError(t, err)

	logger.Info("dropped by level")
	logger.Warn("kept")
	require.NoError(t, closeFn())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(content), "\n"))
	assert.Contains(t, string(content), "kept")
	assert.Empty(t, buf.String())
}

func TestTraceHandler(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "console"}, &buf)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "run-123")
	logger.With("component", "test").InfoContext(ctx, "with trace")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run-123", entry["trace_id"])
	assert.Equal(t, "test", entry["component"])
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = EnsureTraceID(ctx)
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)

	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)), "existing trace ID is kept")
	assert.NotEqual(t, GenerateTraceID(), GenerateTraceID())
}

func TestInitializeLogger_SetsDefault(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	var buf bytes.Buffer
	logger, closeFn, err := InitializeLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "console"}, &buf)
	require.NoError(t, err)
	defer closeFn()

	assert.Same(t, logger, slog.Default())
	slog.InfoContext(WithTraceID(context.Background(), "run-9"), "via default")
	assert.Contains(t, buf.String(), "\"trace_id\":\"run-9\"")
}

func TestInitializeLogger_BadFilePath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, _, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: filepath.Join(blocker, "app.log"),
	}, &bytes.Buffer{})
	assert.Error(t, err)
}
