// Package logging provides structured logging infrastructure for the ghostd
// daemon. It wraps Go's standard log/slog package with context-aware logging
// and domain-specific log attributes.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// contextKey is used for storing logger-related values in context.
type contextKey string

const (
	// OwnerIDKey is the context key for the clipboard owner id.
	OwnerIDKey contextKey = "owner_id"
	// DeviceKey is the context key for the current device name.
	DeviceKey contextKey = "device"
	// ItemIDKey is the context key for clipboard item ids.
	ItemIDKey contextKey = "item_id"
)

// Level represents log levels.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format represents log output formats.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds logging configuration.
type Config struct {
	Level      Level
	Format     Format
	Output     io.Writer
	AddSource  bool
	TimeFormat string
}

// DefaultConfig returns sensible default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:      LevelInfo,
		Format:     FormatText,
		Output:     os.Stderr,
		AddSource:  false,
		TimeFormat: time.RFC3339,
	}
}

// Logger wraps slog.Logger with additional functionality for ghostd.
type Logger struct {
	slogger *slog.Logger
	level   *slog.LevelVar
}

// global is the package-level default logger.
var (
	global     *Logger
	globalOnce sync.Once
)

// Init initializes the global logger with the provided configuration.
func Init(cfg Config) *Logger {
	globalOnce.Do(func() {
		global = New(cfg)
	})
	return global
}

// Default returns the global logger, initializing it with defaults if necessary.
func Default() *Logger {
	if global == nil {
		Init(DefaultConfig())
	}
	return global
}

// New creates a new Logger with the provided configuration.
func New(cfg Config) *Logger {
	level := new(slog.LevelVar)
	level.Set(parseLevel(cfg.Level))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && cfg.TimeFormat != "" {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(slog.TimeKey, t.Format(cfg.TimeFormat))
				}
			}
			return a
		},
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return &Logger{
		slogger: slog.New(handler),
		level:   level,
	}
}

// parseLevel converts a Level to slog.Level.
func parseLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel dynamically changes the log level. Loggers derived with With or
// WithGroup share the level and are affected too.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(parseLevel(level))
}

// With returns a new Logger with the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slogger: l.slogger.With(args...),
		level:   l.level,
	}
}

// WithGroup returns a new Logger with the given group name.
func (l *Logger) WithGroup(name string) *Logger {
	return &Logger{
		slogger: l.slogger.WithGroup(name),
		level:   l.level,
	}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) {
	l.slogger.Debug(msg, args...)
}

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) {
	l.slogger.Info(msg, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) {
	l.slogger.Warn(msg, args...)
}

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) {
	l.slogger.Error(msg, args...)
}

// DebugContext logs at debug level with context.
func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.slogger.DebugContext(ctx, msg, l.enrichArgs(ctx, args)...)
}

// InfoContext logs at info level with context.
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.slogger.InfoContext(ctx, msg, l.enrichArgs(ctx, args)...)
}

// WarnContext logs at warn level with context.
func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.slogger.WarnContext(ctx, msg, l.enrichArgs(ctx, args)...)
}

// ErrorContext logs at error level with context.
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.slogger.ErrorContext(ctx, msg, l.enrichArgs(ctx, args)...)
}

// enrichArgs extracts context values and adds them as log attributes.
func (l *Logger) enrichArgs(ctx context.Context, args []any) []any {
	enriched := make([]any, 0, len(args)+6)

	if v := ctx.Value(OwnerIDKey); v != nil {
		enriched = append(enriched, "owner_id", v)
	}
	if v := ctx.Value(DeviceKey); v != nil {
		enriched = append(enriched, "device", v)
	}
	if v := ctx.Value(ItemIDKey); v != nil {
		enriched = append(enriched, "item_id", v)
	}

	enriched = append(enriched, args...)
	return enriched
}

// Underlying returns the underlying slog.Logger.
func (l *Logger) Underlying() *slog.Logger {
	return l.slogger
}

// --- Context helpers ---

// WithOwnerID adds the owner id to the context.
func WithOwnerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, OwnerIDKey, id)
}

// WithDevice adds the device name to the context.
func WithDevice(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, DeviceKey, name)
}

// WithItemID adds a clipboard item id to the context.
func WithItemID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ItemIDKey, id)
}

// --- Domain-specific logging helpers ---

// LogItemSent logs a successful outgoing sync.
func LogItemSent(ctx context.Context, logger *Logger, itemID, contentType string, size int, encrypted bool) {
	logger.InfoContext(ctx, "item sent",
		"item_id", itemID,
		"content_type", contentType,
		"size", size,
		"encrypted", encrypted,
	)
}

// LogItemApplied logs an inbound item applied to the local clipboard.
func LogItemApplied(ctx context.Context, logger *Logger, itemID, fromDevice, contentType string) {
	logger.InfoContext(ctx, "item applied",
		"item_id", itemID,
		"from_device", fromDevice,
		"content_type", contentType,
	)
}

// LogItemDropped logs a silent policy rejection at debug level.
func LogItemDropped(ctx context.Context, logger *Logger, reason string) {
	logger.DebugContext(ctx, "item dropped", "reason", reason)
}

// LogModeChange logs a connection-mode transition.
func LogModeChange(ctx context.Context, logger *Logger, from, to string) {
	logger.InfoContext(ctx, "connection mode changed",
		"from", from,
		"to", to,
	)
}

// LogPowerChange logs a power-state transition.
func LogPowerChange(ctx context.Context, logger *Logger, from, to string) {
	logger.InfoContext(ctx, "power state changed",
		"from", from,
		"to", to,
	)
}

// LogSideEffectFailed logs a best-effort side channel failure.
func LogSideEffectFailed(ctx context.Context, logger *Logger, channel string, err error) {
	logger.WarnContext(ctx, "side channel delivery failed",
		"channel", channel,
		"error", err.Error(),
	)
}
