package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OutputFormat is a report serialization format
type OutputFormat string

const (
	FormatXLSX OutputFormat = "xlsx"
	FormatCSV  OutputFormat = "csv"
	FormatTXT  OutputFormat = "txt"
	FormatJSON OutputFormat = "json"
)

// OutputFormats lists every recognized format
var OutputFormats = []OutputFormat{FormatXLSX, FormatCSV, FormatTXT, FormatJSON}

// ParseOutputFormat parses a format name, accepting an optional leading dot and any case
func ParseOutputFormat(s string) (OutputFormat, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch name {
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	case "txt", "text":
		return FormatTXT, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q (use xlsx, csv, txt or json)", ErrUnsupportedOutput, s)
}

// ParseOutputFormats parses a comma separated list, dropping duplicates
func ParseOutputFormats(s string) ([]OutputFormat, error) {
	var formats []OutputFormat
	seen := make(map[OutputFormat]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseOutputFormat(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// FormatFromPath infers the format from a file extension
func FormatFromPath(path string) (OutputFormat, bool) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", false
	}
	f, err := ParseOutputFormat(ext)
	if err != nil {
		return "", false
	}
	return f, true
}

// Extension returns the file extension including the dot
func (f OutputFormat) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type of the format
func (f OutputFormat) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatTXT:
		return "text/plain; charset=utf-8"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}
