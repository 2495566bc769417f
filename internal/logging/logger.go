// Package logging builds the zerolog loggers shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devbush/audio-transcriber/internal/config"
	"github.com/rs/zerolog"
)

const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
)

// New builds the root logger. verbose forces debug level.
// The returned close func releases the log file, if any.
func New(cfg config.LogConfig, outputDir string, verbose bool) (zerolog.Logger, func() error, error) {
	level := ParseLevel(cfg.Level)
	if verbose || cfg.Debug {
		level = zerolog.DebugLevel
	}

	var console io.Writer = os.Stderr
	if !strings.EqualFold(cfg.Format, "json") {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	}

	closer := func() error { return nil }
	out := console

	path := cfg.File
	if path == "" && cfg.Save {
		path = filepath.Join(outputDir, fmt.Sprintf("audio_transcriber_%s.log", time.Now().Format("20060102_150405")))
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("failed to open log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(console, f)
		closer = f.Close
	}

	return NewWithWriter(out, level), closer, nil
}

// NewWithWriter builds a timestamped logger writing to w
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return level
}

// WithComponent tags a logger with a component name
func WithComponent(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str(FieldComponent, name).Logger()
}
