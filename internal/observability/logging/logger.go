package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"gopkg.in/natefinch/lumberjack.v2"

	"tweet-takeaways/internal/handler/http/requestid"
	envconfig "tweet-takeaways/pkg/config"
)

// Options configures New.
type Options struct {
	Level slog.Level
	// Text selects the human-readable handler instead of JSON.
	Text bool
	// Output receives every record. Default: os.Stdout
	Output io.Writer

	// File, when set, receives a copy of every record through a rotating
	// writer.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// OptionsFromEnv reads the logging environment.
//
// Environment variables:
//   - LOG_LEVEL: debug, info, warn or error (default: info)
//   - LOG_FORMAT: json or text (default: json)
//   - LOG_FILE: path of an additional rotating log file
//   - LOG_FILE_MAX_SIZE_MB (default: 100), LOG_FILE_MAX_BACKUPS (default: 5),
//     LOG_FILE_MAX_AGE_DAYS (default: 28), LOG_FILE_COMPRESS (default: true)
func OptionsFromEnv() Options {
	return Options{
		Level:      ParseLevel(os.Getenv("LOG_LEVEL")),
		Text:       strings.EqualFold(os.Getenv("LOG_FORMAT"), "text"),
		Output:     os.Stdout,
		File:       os.Getenv("LOG_FILE"),
		MaxSizeMB:  envconfig.GetEnvInt("LOG_FILE_MAX_SIZE_MB", 100),
		MaxBackups: envconfig.GetEnvInt("LOG_FILE_MAX_BACKUPS", 5),
		MaxAgeDays: envconfig.GetEnvInt("LOG_FILE_MAX_AGE_DAYS", 28),
		Compress:   envconfig.GetEnvBool("LOG_FILE_COMPRESS", true),
	}
}

// ParseLevel maps a level name to a slog.Level. Unknown names are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger from opts. The returned closer flushes and closes the
// log file, if any; it is safe to call when no file is configured.
// Source locations are added at warn and above.
func New(opts Options) (*slog.Logger, io.Closer) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		out = io.MultiWriter(out, rotator)
		closer = rotator
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     opts.Level,
		AddSource: opts.Level <= slog.LevelWarn,
	}
	var handler slog.Handler
	if opts.Text {
		handler = slog.NewTextHandler(out, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}
	return slog.New(handler), closer
}

// NewLogger creates a JSON logger on stdout honouring LOG_LEVEL.
func NewLogger() *slog.Logger {
	logger, _ := New(Options{Level: ParseLevel(os.Getenv("LOG_LEVEL")), Output: os.Stdout})
	return logger
}

// WithRequestID returns logger annotated with the request id and, when the
// context carries a sampled span, the trace id.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if reqID := requestid.FromContext(ctx); reqID != "" {
		logger = logger.With(slog.String("request_id", reqID))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		logger = logger.With(slog.String("trace_id", sc.TraceID().String()))
	}
	return logger
}

// FromContext returns the logger stored in ctx, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

type contextKey string

const loggerContextKey contextKey = "logger"
