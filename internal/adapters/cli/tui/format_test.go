package tui

import (
	"testing"
	"time"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{25 * 1024 * 1024, "25.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatSize(tt.input); got != tt.expected {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{0, "0ms"},
		{850 * time.Millisecond, "850ms"},
		{1200 * time.Millisecond, "1.2s"},
		{59 * time.Second, "59.0s"},
		{123 * time.Second, "2m03s"},
		{time.Hour, "60m00s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatDuration(tt.input); got != tt.expected {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatMB(t *testing.T) {
	if got := FormatMB(1.5); got != "1.50 MB" {
		t.Errorf("FormatMB(1.5) = %q", got)
	}
}

func TestMask(t *testing.T) {
	tests := map[string]string{
		"":                    "(not set)",
		"short":               "********",
		"sk-1234567890abcdef": "sk-1...cdef",
	}
	for in, want := range tests {
		if got := Mask(in); got != want {
			t.Errorf("Mask(%q) = %q, want %q", in, got, want)
		}
	}
}
