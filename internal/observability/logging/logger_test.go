package logging

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
	"go.opentelemetry.io/otel/trace"

	"tweet-takeaways/internal/handler/http/requestid"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(Options{Level: slog.LevelInfo, Output: &buf})
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("pipeline finished", slog.String("stage", "metadata"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "pipeline finished", entry["msg"])
	assert.Equal(t, "metadata", entry["stage"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestNew_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := New(Options{Level: slog.LevelDebug, Text: true, Output: &buf})

	logger.Debug("stage advanced", slog.String("stage", "remote"))

	assert.Contains(t, buf.String(), "stage=remote")
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestNew_FileCopy(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "service.log")
	logger, closer := New(Options{Level: slog.LevelInfo, Output: &buf, File: path, MaxSizeMB: 1})

	logger.Info("written twice")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written twice")
	assert.Contains(t, buf.String(), "written twice")
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "TEXT")
	t.Setenv("LOG_FILE", "/var/log/tweet-takeaways.log")
	t.Setenv("LOG_FILE_MAX_BACKUPS", "2")

	opts := OptionsFromEnv()

	assert.Equal(t, slog.LevelWarn, opts.Level)
	assert.True(t, opts.Text)
	assert.Equal(t, "/var/log/tweet-takeaways.log", opts.File)
	assert.Equal(t, 2, opts.MaxBackups)
	assert.Equal(t, 100, opts.MaxSizeMB)
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(
		requestid.WithRequestID(context.Background(), "req-123"),
		trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID}))

	WithRequestID(ctx, base).Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
}

func TestWithRequestID_EmptyContext(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	WithRequestID(context.Background(), base).Info("hello")

	assert.NotContains(t, buf.String(), "request_id")
	assert.NotContains(t, buf.String(), "trace_id")
}

func TestLoggerContext(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}
