package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the logger output encoding.
type Format string

const (
	// FormatJSON emits structured records for log aggregation systems.
	FormatJSON Format = "json"
	// FormatText emits human-readable records for development.
	FormatText Format = "text"
)

// Config provides environment-based logger configuration.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format Format `env:"LOG_FORMAT" envDefault:"json"`
}

type settings struct {
	level  slog.Level
	format Format
	output io.Writer
	attrs  []slog.Attr
}

// Option configures logger creation.
type Option func(*settings)

// WithLevel sets the minimum level of records the logger emits.
func WithLevel(l slog.Level) Option {
	return func(s *settings) { s.level = l }
}

// WithFormat sets the output encoding.
func WithFormat(f Format) Option {
	return func(s *settings) {
		if f == FormatJSON || f == FormatText {
			s.format = f
		}
	}
}

// WithOutput sets the output destination. Nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.output = w
		}
	}
}

// WithAttr attaches static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(s *settings) { s.attrs = append(s.attrs, attrs...) }
}

// New creates a slog.Logger with the given options. Defaults: info level,
// JSON output to stdout.
func New(opts ...Option) *slog.Logger {
	s := settings{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(&s)
	}

	hopts := &slog.HandlerOptions{Level: s.level}

	var h slog.Handler
	switch s.format {
	case FormatText:
		h = slog.NewTextHandler(s.output, hopts)
	default:
		h = slog.NewJSONHandler(s.output, hopts)
	}

	if len(s.attrs) > 0 {
		h = h.WithAttrs(s.attrs)
	}

	return slog.New(h)
}

// NewFromConfig creates a slog.Logger from environment configuration.
func NewFromConfig(cfg Config, opts ...Option) *slog.Logger {
	base := []Option{
		WithLevel(parseLevel(cfg.Level)),
		WithFormat(cfg.Format),
	}
	return New(append(base, opts...)...)
}

// parseLevel maps a level name to a slog.Level, defaulting to info for
// unrecognized values.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
