package ports

import "github.com/devbush/audio-transcriber/internal/domain"

// ReportWriter serializes records
type ReportWriter interface {
	// Render returns the serialized report without touching the filesystem
	Render(records []domain.Record, format domain.OutputFormat) ([]byte, error)

	// Write serializes to path and returns the resolved absolute path
	Write(records []domain.Record, format domain.OutputFormat, path string) (string, error)

	// Remove deletes a report written earlier in the same run
	Remove(path string) error
}
