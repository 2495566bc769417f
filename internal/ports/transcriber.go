package ports

import (
	"context"
	"io"
)

// SpeechRequest is one upload to the remote speech-to-text service
type SpeechRequest struct {
	FileName string
	Audio    io.Reader
	Language string // empty for auto-detect
}

// SpeechToText is the remote transcription backend
type SpeechToText interface {
	// Name identifies the backend in logs and health output
	Name() string

	// Available reports whether the backend is configured to accept calls
	Available() bool

	// Transcribe uploads the audio and returns the raw transcript
	Transcribe(ctx context.Context, req SpeechRequest) (string, error)
}
