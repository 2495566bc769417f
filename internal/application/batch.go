package application

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/devbush/audio-transcriber/internal/ports"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// BatchState is a step of a folder run
type BatchState int

const (
	StateIdle BatchState = iota
	StateLocating
	StateProcessing
	StateReporting
	StateDone
	StateEmptyInput
	StateFailed
)

func (s BatchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLocating:
		return "locating"
	case StateProcessing:
		return "processing"
	case StateReporting:
		return "reporting"
	case StateDone:
		return "done"
	case StateEmptyInput:
		return "empty-input"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// BatchObserver receives progress events from a run
type BatchObserver interface {
	StateChanged(state BatchState)
	FileStarted(index, total int, file domain.AudioFile)
	FileFinished(rec domain.Record, total int)
}

// NopObserver ignores every event
type NopObserver struct{}

func (NopObserver) StateChanged(BatchState)                {}
func (NopObserver) FileStarted(int, int, domain.AudioFile) {}
func (NopObserver) FileFinished(domain.Record, int)        {}

// DefaultReportName returns transcriptions_YYYYMMDD_HHMMSS without extension
func DefaultReportName(now time.Time) string {
	return "transcriptions_" + now.Format("20060102_150405")
}

// BatchOptions configures one folder run
type BatchOptions struct {
	Folder    string
	Output    string // report path; empty generates a timestamped name in OutputDir
	OutputDir string
	Formats   []domain.OutputFormat
	Language  string
}

// BatchResult is what a completed run returns
type BatchResult struct {
	Records []domain.Record
	Summary domain.Summary
	Reports []string
}

// BatchRunner processes a folder one file at a time and writes the report
type BatchRunner struct {
	fs         afero.Fs
	locator    ports.AudioLocator
	client     *TranscriptionClient
	writer     ports.ReportWriter
	normalizer ports.Normalizer
	delay      time.Duration
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
	log        zerolog.Logger
}

// BatchRunnerOption customizes a BatchRunner
type BatchRunnerOption func(*BatchRunner)

// WithNormalizer enables conversion of formats the backend cannot accept
func WithNormalizer(n ports.Normalizer) BatchRunnerOption {
	return func(r *BatchRunner) { r.normalizer = n }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) BatchRunnerOption {
	return func(r *BatchRunner) { r.now = now }
}

// WithSleep replaces the pause between calls
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) BatchRunnerOption {
	return func(r *BatchRunner) { r.sleep = sleep }
}

// NewBatchRunner creates a new batch runner
func NewBatchRunner(
	fs afero.Fs,
	locator ports.AudioLocator,
	client *TranscriptionClient,
	writer ports.ReportWriter,
	delay time.Duration,
	log zerolog.Logger,
	opts ...BatchRunnerOption,
) *BatchRunner {
	r := &BatchRunner{
		fs:      fs,
		locator: locator,
		client:  client,
		writer:  writer,
		delay:   delay,
		now:     time.Now,
		sleep:   sleepContext,
		log:     log.With().Str("component", "batch").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type reportTarget struct {
	format domain.OutputFormat
	path   string
}

// Run locates, transcribes and reports. Per-file failures are recorded, not
// returned. Only invalid input, an empty folder, report failures and
// cancellation end the run with an error, and then no report is left behind.
func (r *BatchRunner) Run(ctx context.Context, opts BatchOptions, obs BatchObserver) (*BatchResult, error) {
	if obs == nil {
		obs = NopObserver{}
	}
	fail := func(err error) (*BatchResult, error) {
		obs.StateChanged(StateFailed)
		return nil, err
	}

	if err := domain.ValidateLanguage(opts.Language); err != nil {
		return fail(domain.NewInputError("batch", err))
	}
	targets, err := r.resolveTargets(opts)
	if err != nil {
		return fail(err)
	}

	obs.StateChanged(StateLocating)
	files, err := r.locator.Locate(opts.Folder)
	if err != nil {
		return fail(err)
	}
	if len(files) == 0 {
		obs.StateChanged(StateEmptyInput)
		return nil, domain.NewInputError("batch", fmt.Errorf("%w in %s", domain.ErrNoAudioFiles, opts.Folder))
	}
	r.log.Info().Str("folder", opts.Folder).Int("files", len(files)).Msg("starting batch")

	obs.StateChanged(StateProcessing)
	records := make([]domain.Record, 0, len(files))
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		obs.FileStarted(i, len(files), file)

		rec := r.processFile(ctx, i, file, opts.Language)
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		records = append(records, rec)
		obs.FileFinished(rec, len(files))

		if i < len(files)-1 {
			if err := r.sleep(ctx, r.delay); err != nil {
				return fail(err)
			}
		}
	}

	obs.StateChanged(StateReporting)
	reports, err := r.writeReports(records, targets)
	if err != nil {
		return fail(err)
	}

	summary := domain.Summarize(records, r.now())
	r.log.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Strs("reports", reports).
		Msg("batch complete")

	obs.StateChanged(StateDone)
	return &BatchResult{Records: records, Summary: summary, Reports: reports}, nil
}

func (r *BatchRunner) processFile(ctx context.Context, i int, file domain.AudioFile, language string) domain.Record {
	start := r.now()
	attempt := r.attempt(ctx, file, language)
	end := r.now()
	return domain.NewRecord(i+1, file, attempt, end.Sub(start), end)
}

func (r *BatchRunner) attempt(ctx context.Context, file domain.AudioFile, language string) domain.Attempt {
	target := file
	if !domain.IsSupportedAudio(file.Name) {
		if r.normalizer == nil || !r.normalizer.Handles(file.Name) {
			return domain.Failed(fmt.Sprintf("%v: %s", domain.ErrUnsupportedFormat, file.Ext()))
		}
		converted, cleanup, err := r.normalizer.Normalize(ctx, file)
		if err != nil {
			r.log.Warn().Err(err).Str("file", file.Name).Msg("conversion failed")
			return domain.Failed(err.Error())
		}
		defer cleanup()
		target = converted
	}
	return r.client.TranscribeFile(ctx, r.fs, target, AttemptOptions{Language: language})
}

func (r *BatchRunner) resolveTargets(opts BatchOptions) ([]reportTarget, error) {
	formats := opts.Formats
	base := opts.Output

	if base == "" {
		base = filepath.Join(opts.OutputDir, DefaultReportName(r.now()))
	} else if ext := filepath.Ext(base); ext != "" {
		if f, ok := domain.FormatFromPath(base); ok {
			if len(formats) > 0 && !slices.Contains(formats, f) {
				return nil, domain.NewInputError("batch",
					fmt.Errorf("%w: output %s does not match --format %s", domain.ErrUnsupportedOutput, filepath.Base(base), joinFormats(formats)))
			}
			base = strings.TrimSuffix(base, ext)
			if len(formats) == 0 {
				formats = []domain.OutputFormat{f}
			}
		} else if len(formats) == 0 {
			return nil, domain.NewInputError("batch", fmt.Errorf("%w: %s", domain.ErrUnsupportedOutput, ext))
		}
	}
	if len(formats) == 0 {
		formats = []domain.OutputFormat{domain.FormatXLSX}
	}

	targets := make([]reportTarget, 0, len(formats))
	for _, f := range formats {
		targets = append(targets, reportTarget{format: f, path: base + f.Extension()})
	}
	return targets, nil
}

func joinFormats(formats []domain.OutputFormat) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ",")
}

func (r *BatchRunner) writeReports(records []domain.Record, targets []reportTarget) ([]string, error) {
	var written []string
	for _, t := range targets {
		path, err := r.writer.Write(records, t.format, t.path)
		if err != nil {
			for _, p := range written {
				if rmErr := r.writer.Remove(p); rmErr != nil {
					r.log.Warn().Err(rmErr).Str("path", p).Msg("failed to remove partial report")
				}
			}
			return nil, err
		}
		written = append(written, path)
	}
	return written, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
