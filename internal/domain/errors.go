package domain

import (
	"errors"
	"fmt"
)

var (
	// Input errors
	ErrFolderNotFound    = errors.New("folder not found")
	ErrNoAudioFiles      = errors.New("no audio files found")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrInvalidLanguage   = errors.New("language must be a 2-letter lowercase ISO-639-1 code")
	ErrUnsupportedOutput = errors.New("unsupported output format")

	// Transcription errors
	ErrFileTooLarge       = errors.New("file too large")
	ErrBackendUnavailable = errors.New("transcription backend unavailable")
	ErrConversionFailed   = errors.New("conversion failed")

	// Report errors
	ErrNoRecords = errors.New("no records to report")

	// Dependency errors
	ErrFFmpegNotFound = errors.New("ffmpeg not found")
)

// InputError rejects a request before any work starts.
type InputError struct {
	Op  string
	Err error
}

func (e *InputError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// NewInputError wraps err as an InputError for op.
func NewInputError(op string, err error) error {
	return &InputError{Op: op, Err: err}
}

// IsInputError reports whether err carries an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// ReportError is a serialization or write failure of a report.
type ReportError struct {
	Path string
	Err  error
}

func (e *ReportError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("report: %v", e.Err)
	}
	return fmt.Sprintf("report %s: %v", e.Path, e.Err)
}

func (e *ReportError) Unwrap() error { return e.Err }

// IsReportError reports whether err carries a ReportError.
func IsReportError(err error) bool {
	var re *ReportError
	return errors.As(err, &re)
}
