package cli

import (
	"fmt"

	"github.com/devbush/audio-transcriber/internal/adapters/ffmpeg"
	"github.com/devbush/audio-transcriber/internal/adapters/filesystem"
	"github.com/devbush/audio-transcriber/internal/adapters/report"
	"github.com/devbush/audio-transcriber/internal/adapters/whisper"
	"github.com/devbush/audio-transcriber/internal/application"
	"github.com/devbush/audio-transcriber/internal/config"
	"github.com/devbush/audio-transcriber/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// AppOptions are the command-line overrides applied on top of the config file
type AppOptions struct {
	ConfigPath string
	APIKey     string
	Verbose    bool
}

// App holds all application dependencies
type App struct {
	Config     *config.Config
	ConfigPath string
	Log        zerolog.Logger

	FS          afero.Fs
	Transcriber *whisper.Transcriber
	Normalizer  *ffmpeg.Normalizer
	Locator     *filesystem.Locator
	Reports     *report.Writer

	Client  *application.TranscriptionClient
	Runner  *application.BatchRunner
	Service *application.Service

	closeLog func() error
}

// NewApp loads configuration and wires up all dependencies
func NewApp(opts AppOptions) (*App, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.ConfigPath()
	}

	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, err
	}
	if opts.APIKey != "" {
		cfg.OpenAI.APIKey = opts.APIKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, closeLog, err := logging.New(cfg.Log, cfg.Paths.OutputFolder, opts.Verbose)
	if err != nil {
		return nil, err
	}

	timeout, _ := cfg.TimeoutDuration()
	delay, _ := cfg.DelayDuration()

	fs := afero.NewOsFs()
	transcriber := whisper.NewTranscriber(whisper.Options{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
	})
	normalizer := ffmpeg.NewNormalizer(cfg.Paths.FFmpeg, log)

	var extra []string
	var runnerOpts []application.BatchRunnerOption
	if cfg.Transcription.ConvertUnsupported {
		if normalizer.IsAvailable() {
			extra = normalizer.Extensions()
			runnerOpts = append(runnerOpts, application.WithNormalizer(normalizer))
		} else {
			log.Warn().Msg("convert_unsupported is enabled but ffmpeg was not found")
		}
	}

	locator := filesystem.NewLocator(fs, log, extra...)
	reports := report.NewWriter(fs, nil)
	client := application.NewTranscriptionClient(transcriber, application.ClientOptions{
		MaxFileSizeMB: cfg.Transcription.MaxFileSizeMB,
		Timeout:       timeout,
	}, log)

	return &App{
		Config:      cfg,
		ConfigPath:  path,
		Log:         log,
		FS:          fs,
		Transcriber: transcriber,
		Normalizer:  normalizer,
		Locator:     locator,
		Reports:     reports,
		Client:      client,
		Runner:      application.NewBatchRunner(fs, locator, client, reports, delay, log, runnerOpts...),
		Service:     application.NewService(client, reports, delay, log),
		closeLog:    closeLog,
	}, nil
}

// Close releases the log file, if any
func (a *App) Close() error {
	if a.closeLog == nil {
		return nil
	}
	return a.closeLog()
}

var globalApp *App

// GetApp returns the global app instance, creating it from the parsed flags if needed
func GetApp() (*App, error) {
	if globalApp == nil {
		app, err := NewApp(AppOptions{
			ConfigPath: configFlag,
			APIKey:     apiKeyFlag,
			Verbose:    verboseFlag,
		})
		if err != nil {
			return nil, err
		}
		globalApp = app
	}
	return globalApp, nil
}

func closeApp() {
	if globalApp != nil {
		_ = globalApp.Close()
		globalApp = nil
	}
}
