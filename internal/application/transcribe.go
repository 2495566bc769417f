package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/devbush/audio-transcriber/internal/ports"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ClientOptions configures the transcription client
type ClientOptions struct {
	MaxFileSizeMB int
	Timeout       time.Duration // per call; zero disables
}

// AttemptOptions configures a single transcription call
type AttemptOptions struct {
	Language string // empty for auto-detect
	MaxBytes int64  // zero uses the client ceiling
}

// TranscriptionClient wraps one remote call per file with a size ceiling,
// language check and per-call timeout. It never returns an error: every
// outcome is a domain.Attempt.
type TranscriptionClient struct {
	stt      ports.SpeechToText
	maxBytes int64
	timeout  time.Duration
	log      zerolog.Logger
}

// NewTranscriptionClient creates a new transcription client
func NewTranscriptionClient(stt ports.SpeechToText, opts ClientOptions, log zerolog.Logger) *TranscriptionClient {
	maxMB := opts.MaxFileSizeMB
	if maxMB <= 0 {
		maxMB = 25
	}
	return &TranscriptionClient{
		stt:      stt,
		maxBytes: domain.MBToBytes(maxMB),
		timeout:  opts.Timeout,
		log:      log.With().Str("component", "transcriber").Logger(),
	}
}

// Backend returns the remote backend
func (c *TranscriptionClient) Backend() ports.SpeechToText {
	return c.stt
}

// MaxBytes returns the default size ceiling
func (c *TranscriptionClient) MaxBytes() int64 {
	return c.maxBytes
}

// TranscribeFile transcribes a file opened from fs
func (c *TranscriptionClient) TranscribeFile(ctx context.Context, fs afero.Fs, file domain.AudioFile, opts AttemptOptions) domain.Attempt {
	return c.transcribe(ctx, file.Name, file.Size, func() (io.ReadCloser, error) {
		return fs.Open(file.Path)
	}, opts)
}

// TranscribeBytes transcribes an in-memory buffer
func (c *TranscriptionClient) TranscribeBytes(ctx context.Context, name string, data []byte, opts AttemptOptions) domain.Attempt {
	return c.transcribe(ctx, name, int64(len(data)), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}, opts)
}

func (c *TranscriptionClient) transcribe(ctx context.Context, name string, size int64, open func() (io.ReadCloser, error), opts AttemptOptions) domain.Attempt {
	limit := c.maxBytes
	if opts.MaxBytes > 0 {
		limit = opts.MaxBytes
	}
	if size > limit {
		c.log.Warn().Str("file", name).Int64("size", size).Int64("limit", limit).Msg("file exceeds size limit")
		return domain.Failed(SizeLimitMessage(size, limit))
	}
	if err := domain.ValidateLanguage(opts.Language); err != nil {
		return domain.Failed(err.Error())
	}

	rc, err := open()
	if err != nil {
		return domain.Failed(fmt.Sprintf("failed to read %s: %v", name, err))
	}
	defer rc.Close()

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.stt.Transcribe(callCtx, ports.SpeechRequest{
		FileName: name,
		Audio:    rc,
		Language: opts.Language,
	})
	if err != nil {
		msg := err.Error()
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			msg = fmt.Sprintf("timed out after %s: %v", c.timeout, err)
		}
		c.log.Warn().Str("file", name).Str("error", msg).Msg("transcription failed")
		return domain.Failed(msg)
	}

	c.log.Debug().Str("file", name).Int("chars", len(text)).Msg("transcription succeeded")
	return domain.Succeeded(text)
}

// SizeLimitMessage describes a size ceiling violation
func SizeLimitMessage(size, limit int64) string {
	return fmt.Sprintf("%v: %.2fMB exceeds the %gMB limit", domain.ErrFileTooLarge, float64(size)/(1024*1024), domain.BytesToMB(limit))
}
