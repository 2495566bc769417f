package whisper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/devbush/audio-transcriber/internal/ports"
	openai "github.com/sashabaranov/go-openai"
)

// Options configures the remote Whisper client
type Options struct {
	APIKey  string
	BaseURL string // empty for the public OpenAI endpoint
	Model   string
}

// Transcriber implements ports.SpeechToText using the OpenAI audio API
type Transcriber struct {
	client *openai.Client
	model  string
	hasKey bool
}

// NewTranscriber creates a new remote Whisper transcriber
func NewTranscriber(opts Options) *Transcriber {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	model := opts.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &Transcriber{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		hasKey: opts.APIKey != "",
	}
}

func (t *Transcriber) Name() string {
	return "openai/" + t.model
}

func (t *Transcriber) Available() bool {
	return t.hasKey
}

// Transcribe uploads the audio as multipart form data and returns the plain text transcript
func (t *Transcriber) Transcribe(ctx context.Context, req ports.SpeechRequest) (string, error) {
	if !t.hasKey {
		return "", fmt.Errorf("%w: no API key configured", domain.ErrBackendUnavailable)
	}

	resp, err := t.client.CreateTranscription(ctx, buildRequest(t.model, req))
	if err != nil {
		return "", describeError(err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func buildRequest(model string, req ports.SpeechRequest) openai.AudioRequest {
	return openai.AudioRequest{
		Model:    model,
		FilePath: req.FileName,
		Reader:   req.Audio,
		Language: req.Language,
		Format:   openai.AudioResponseFormatText,
	}
}

// describeError flattens API errors into "HTTP <status>: <message>"
func describeError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("whisper API HTTP %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("whisper API HTTP %d: %w", reqErr.HTTPStatusCode, reqErr.Err)
	}
	return fmt.Errorf("whisper API: %w", err)
}

// Ensure Transcriber implements interface
var _ ports.SpeechToText = (*Transcriber)(nil)
