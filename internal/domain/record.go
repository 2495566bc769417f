package domain

import (
	"time"
)

// TimestampLayout is used for every timestamp rendered in reports
const TimestampLayout = "2006-01-02 15:04:05"

// Attempt is the outcome of one transcription call. Failures are values, not errors.
type Attempt struct {
	Text    string
	Success bool
	Error   string
}

// Succeeded builds a successful attempt
func Succeeded(text string) Attempt {
	return Attempt{Text: text, Success: true}
}

// Failed builds a failed attempt. An empty message is replaced so failures always explain themselves.
func Failed(msg string) Attempt {
	if msg == "" {
		msg = "transcription failed"
	}
	return Attempt{Success: false, Error: msg}
}

// Record is one row of a transcription report
type Record struct {
	ID             int       `json:"id"`
	FileName       string    `json:"file_name"`
	Text           string    `json:"transcription"`
	Success        bool      `json:"success"`
	Error          string    `json:"error"`
	SizeMB         float64   `json:"file_size_mb"`
	ProcessingTime float64   `json:"processing_time_seconds"`
	TranscribedAt  time.Time `json:"transcribed_at"`
	ModifiedAt     time.Time `json:"modified_at,omitzero"`
	Path           string    `json:"path,omitempty"`
}

// NewRecord builds the record for the id-th processed file
func NewRecord(id int, file AudioFile, attempt Attempt, elapsed time.Duration, completedAt time.Time) Record {
	rec := Record{
		ID:             id,
		FileName:       file.Name,
		Success:        attempt.Success,
		SizeMB:         file.SizeMB(),
		ProcessingTime: RoundTo(elapsed.Seconds(), 2),
		TranscribedAt:  completedAt,
		ModifiedAt:     file.ModTime,
		Path:           file.Path,
	}
	if attempt.Success {
		rec.Text = attempt.Text
	} else {
		rec.Error = Failed(attempt.Error).Error
	}
	return rec
}
