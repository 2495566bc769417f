package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devbush/audio-transcriber/internal/config"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := WithComponent(NewWithWriter(&buf, zerolog.InfoLevel), "batch")
	log.Info().Msg("started")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry[FieldComponent] != "batch" {
		t.Errorf("component = %v, want batch", entry[FieldComponent])
	}
	if entry["message"] != "started" {
		t.Errorf("message = %v, want started", entry["message"])
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zerolog.WarnLevel)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestNew_WritesLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "run.log")

	log, closeFn, err := New(config.LogConfig{Level: "info", Format: "json", File: path}, dir, false)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	log.Info().Msg("to file")
	if err := closeFn(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file content = %q", data)
	}
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	log, closeFn, err := New(config.LogConfig{Level: "error", Format: "json"}, t.TempDir(), true)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer closeFn()
	if log.GetLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", log.GetLevel())
	}
}
