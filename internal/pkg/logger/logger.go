// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ContextKey names a request or task value copied onto every log record.
type ContextKey string

const (
	ContextKeyRequestID  ContextKey = "request_id"
	ContextKeyTraceID    ContextKey = "trace_id"
	ContextKeyUserID     ContextKey = "user_id"
	ContextKeyClientIP   ContextKey = "client_ip"
	ContextKeyUserAgent  ContextKey = "user_agent"
	ContextKeyMethod     ContextKey = "method"
	ContextKeyPath       ContextKey = "path"
	ContextKeyStatusCode ContextKey = "status_code"
	ContextKeyTaskType   ContextKey = "task_type"
	ContextKeyTaskID     ContextKey = "task_id"
)

// contextKeys is the order context values appear in a record.
var contextKeys = []ContextKey{
	ContextKeyRequestID,
	ContextKeyTraceID,
	ContextKeyUserID,
	ContextKeyClientIP,
	ContextKeyUserAgent,
	ContextKeyMethod,
	ContextKeyPath,
	ContextKeyStatusCode,
	ContextKeyTaskType,
	ContextKeyTaskID,
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level          string
	Format         string // json, text
	Output         string // stdout, stderr, file:<path>
	AddSource      bool
	SampleRate     float64
	EnableSampling bool
	Environment    string
	ServiceName    string
	ServiceVersion string
}

// Logger is a slog.Logger built from a LogConfig.
type Logger struct {
	*slog.Logger
}

// SetupLogger builds the process logger for the API, worker and seeder
// binaries and installs it as the slog default. Service identity comes from
// SERVICE_NAME, SERVICE_VERSION and APP_ENV.
func SetupLogger(level string, format string) *Logger {
	l := NewLogger(&LogConfig{
		Level:          level,
		Format:         format,
		AddSource:      strings.EqualFold(level, "debug"),
		ServiceName:    os.Getenv("SERVICE_NAME"),
		ServiceVersion: os.Getenv("SERVICE_VERSION"),
		Environment:    os.Getenv("APP_ENV"),
	})
	slog.SetDefault(l.Logger)
	return l
}

// NewLogger creates a logger writing to config.Output. A nil config logs
// JSON at info to stdout.
func NewLogger(config *LogConfig) *Logger {
	if config == nil {
		config = &LogConfig{Level: "info", Format: "json"}
	}
	return newLogger(config, openOutput(config.Output))
}

// newLogger stacks the handlers outermost first: sanitization, sampling,
// context enrichment, then the encoder.
func newLogger(config *LogConfig, w io.Writer) *Logger {
	jsonOut := config.Format != "text"
	opts := &slog.HandlerOptions{
		Level:     parseLevel(config.Level),
		AddSource: config.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return rewriteAttr(a, jsonOut)
		},
	}

	var h slog.Handler
	if jsonOut {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = NewPrettyTextHandler(w, opts)
	}
	h = NewContextHandler(h)
	if config.EnableSampling && config.SampleRate > 0 && config.SampleRate < 1 {
		h = NewSamplingHandler(h, config.SampleRate)
	}
	h = NewSanitizationHandler(h)

	var identity []slog.Attr
	for key, val := range map[string]string{
		"app":     config.ServiceName,
		"version": config.ServiceVersion,
		"env":     config.Environment,
	} {
		if val != "" {
			identity = append(identity, slog.String(key, val))
		}
	}
	if len(identity) > 0 {
		h = h.WithAttrs(identity)
	}

	return &Logger{Logger: slog.New(h)}
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// openOutput falls back to stdout when a log file cannot be opened.
func openOutput(output string) io.Writer {
	switch {
	case output == "stderr":
		return os.Stderr
	case strings.HasPrefix(output, "file:"):
		f, err := os.OpenFile(strings.TrimPrefix(output, "file:"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			return f
		}
	}
	return os.Stdout
}

// contextAttrs returns the non-empty context values in contextKeys order.
func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	for _, key := range contextKeys {
		switch v := ctx.Value(key).(type) {
		case nil:
		case string:
			if v != "" {
				attrs = append(attrs, slog.String(string(key), v))
			}
		case fmt.Stringer:
			attrs = append(attrs, slog.String(string(key), v.String()))
		default:
			attrs = append(attrs, slog.Any(string(key), v))
		}
	}
	return attrs
}

// rewriteAttr formats timestamps as RFC3339Nano, renames level to severity
// for JSON output and reports *_ms durations as milliseconds.
func rewriteAttr(a slog.Attr, jsonOut bool) slog.Attr {
	switch {
	case a.Key == slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(time.RFC3339Nano))
		}
	case a.Key == slog.LevelKey && jsonOut:
		a.Key = "severity"
	case strings.HasSuffix(a.Key, "_ms"):
		if d, ok := a.Value.Any().(time.Duration); ok {
			a.Value = slog.Float64Value(float64(d.Milliseconds()))
		}
	}
	return a
}
