// Package logging builds the diagnostic *slog.Logger used across ratewatch.
//
// The hook shares stderr with the warnings it prints for the operator, so
// diagnostics are discarded unless RATEWATCH_DEBUG is set.
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/danielbrauer/claude-ratewatch/internal/env"
)

// DebugEnv enables debug logging to stderr when truthy.
const DebugEnv = "RATEWATCH_DEBUG"

// Format represents the log output format.
type Format int

const (
	// FormatText produces key=value output. This is the default.
	FormatText Format = iota

	// FormatJSON produces JSON-formatted log output.
	FormatJSON
)

type config struct {
	format Format
	level  slog.Leveler
	output io.Writer
}

// Option configures the logger created by New.
type Option func(*config)

// WithFormat sets the output format.
func WithFormat(f Format) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithLevel sets the minimum log level. The default is slog.LevelInfo.
func WithLevel(l slog.Leveler) Option {
	return func(c *config) {
		c.level = l
	}
}

// WithOutput sets the destination writer. The default is io.Discard.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.output = w
	}
}

// New creates a logger with RFC3339 timestamps.
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		format: FormatText,
		level:  slog.LevelInfo,
		output: io.Discard,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       cfg.level,
		ReplaceAttr: replaceAttr,
	}

	var handler slog.Handler
	switch cfg.format {
	case FormatJSON:
		handler = slog.NewJSONHandler(cfg.output, handlerOpts)
	default:
		handler = slog.NewTextHandler(cfg.output, handlerOpts)
	}
	return slog.New(handler)
}

// FromEnv returns a debug logger writing to stderr when DebugEnv is truthy,
// and a discarding logger otherwise.
func FromEnv(r env.Reader, stderr io.Writer) *slog.Logger {
	if !env.Bool(r, DebugEnv) {
		return New()
	}
	return New(WithLevel(slog.LevelDebug), WithOutput(stderr))
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(time.RFC3339))
		}
	}
	return a
}
