package cli

import (
	"fmt"

	"github.com/devbush/audio-transcriber/internal/application"
	"github.com/devbush/audio-transcriber/internal/config"
	"github.com/devbush/audio-transcriber/internal/domain"
)

// batchFlags is the transcribe command line, decoupled from the package flag vars
type batchFlags struct {
	Output    string
	OutputDir string
	Language  string
	Formats   string
}

// resolveFolder returns the folder argument or the configured default
func resolveFolder(args []string, cfg *config.Config) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.Paths.AudioFolder
}

// buildBatchOptions merges flags over config defaults
func buildBatchOptions(args []string, flags batchFlags, cfg *config.Config) (application.BatchOptions, error) {
	formats, err := domain.ParseOutputFormats(flags.Formats)
	if err != nil {
		return application.BatchOptions{}, domain.NewInputError("transcribe", err)
	}

	outputDir := flags.OutputDir
	if outputDir == "" {
		outputDir = cfg.Paths.OutputFolder
	}

	language := flags.Language
	if language == "" {
		language = cfg.Transcription.Language
	}
	if err := domain.ValidateLanguage(language); err != nil {
		return application.BatchOptions{}, domain.NewInputError("transcribe", fmt.Errorf("--language: %w", err))
	}

	return application.BatchOptions{
		Folder:    resolveFolder(args, cfg),
		Output:    flags.Output,
		OutputDir: outputDir,
		Formats:   formats,
		Language:  language,
	}, nil
}
