package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/devbush/audio-transcriber/internal/ports"
	"github.com/spf13/afero"
)

const (
	DetailSheet  = "Transcriptions"
	SummarySheet = "Summary"
)

// Columns is the fixed column order of tabular reports
var Columns = []string{
	"ID",
	"File Name",
	"Transcription",
	"Success",
	"Error",
	"Size (MB)",
	"Processing Time (s)",
	"Transcribed At",
	"Modified At",
	"Full Path",
}

// Writer implements ports.ReportWriter
type Writer struct {
	fs  afero.Fs
	now func() time.Time
}

// NewWriter creates a report writer on fs. now stamps the summary.
func NewWriter(fs afero.Fs, now func() time.Time) *Writer {
	if now == nil {
		now = time.Now
	}
	return &Writer{fs: fs, now: now}
}

// Render serializes records in format
func (w *Writer) Render(records []domain.Record, format domain.OutputFormat) ([]byte, error) {
	if len(records) == 0 {
		return nil, &domain.ReportError{Err: domain.ErrNoRecords}
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case domain.FormatXLSX:
		data, err = renderXLSX(records, domain.Summarize(records, w.now()))
	case domain.FormatCSV:
		data, err = renderCSV(records)
	case domain.FormatTXT:
		data = renderText(records)
	case domain.FormatJSON:
		data, err = renderJSON(records, domain.Summarize(records, w.now()))
	default:
		return nil, &domain.ReportError{Err: fmt.Errorf("%w: %q", domain.ErrUnsupportedOutput, format)}
	}
	if err != nil {
		return nil, &domain.ReportError{Err: err}
	}
	return data, nil
}

// Write serializes records to path, creating parent folders, and returns the absolute path
func (w *Writer) Write(records []domain.Record, format domain.OutputFormat, path string) (string, error) {
	data, err := w.Render(records, format)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &domain.ReportError{Path: path, Err: err}
	}
	if err := w.fs.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return "", &domain.ReportError{Path: abs, Err: fmt.Errorf("failed to create directory: %w", err)}
	}
	if err := afero.WriteFile(w.fs, abs, data, 0644); err != nil {
		return "", &domain.ReportError{Path: abs, Err: err}
	}
	return abs, nil
}

// Remove deletes a previously written report
func (w *Writer) Remove(path string) error {
	if err := w.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// row returns the cells of a record in column order
func row(r domain.Record) []string {
	return []string{
		strconv.Itoa(r.ID),
		r.FileName,
		r.Text,
		yesNo(r.Success),
		r.Error,
		strconv.FormatFloat(r.SizeMB, 'f', 2, 64),
		strconv.FormatFloat(r.ProcessingTime, 'f', 2, 64),
		formatTime(r.TranscribedAt),
		formatTime(r.ModifiedAt),
		r.Path,
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.TimestampLayout)
}

// Ensure Writer implements interface
var _ ports.ReportWriter = (*Writer)(nil)
