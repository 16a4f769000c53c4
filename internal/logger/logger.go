package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys used by the logger
type ContextKey string

const (
	// LoggerKey is the context key for the logger instance
	LoggerKey ContextKey = "logger"
)

// Output formats accepted by Options.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configures a logger built by NewWithOptions.
type Options struct {
	Level  string    // zerolog level name, defaults to "info"
	Format string    // FormatConsole or FormatJSON, defaults to console
	Writer io.Writer // defaults to os.Stdout
}

// New creates a console logger at info level
func New() zerolog.Logger {
	l, _ := NewWithOptions(Options{})
	return l
}

// NewWithOptions creates a structured logger from explicit settings.
func NewWithOptions(opts Options) (zerolog.Logger, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("logger: invalid level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	switch opts.Format {
	case "", FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("logger: unknown format %q", opts.Format)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Caller().Logger(), nil
}

// NewWithWriter creates a JSON logger writing to w
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Caller().Logger()
}

// WithContext adds the logger to the context
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from the context or returns a default logger
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return New()
}

// WithRequestID returns a context whose logger tags every event with id.
func WithRequestID(ctx context.Context, id string) context.Context {
	l := FromContext(ctx).With().Str("request_id", id).Logger()
	return WithContext(ctx, l)
}

// WithFields adds structured fields to a logger
func WithFields(logger zerolog.Logger, fields map[string]interface{}) zerolog.Logger {
	ctx := logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}
