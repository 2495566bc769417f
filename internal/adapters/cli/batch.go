package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/devbush/audio-transcriber/internal/adapters/cli/tui"
	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/spf13/cobra"
)

// NewTranscribeCmd creates the transcribe command
func NewTranscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe [folder]",
		Short: "Transcribe every audio file in a folder",
		Long: `Transcribe every supported audio file under a folder, one call at a
time with the configured delay between calls, and write a report.

Example:
  audio-transcriber transcribe ./audios
  audio-transcriber transcribe ./audios -o results.csv -l pt
  audio-transcriber transcribe ./audios --format xlsx,json --output-dir ./reports`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTranscribe,
	}

	addTranscribeFlags(cmd.Flags())
	return cmd
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	if !app.Transcriber.Available() {
		return fmt.Errorf("%w: set OPENAI_API_KEY or pass --api-key", domain.ErrBackendUnavailable)
	}

	opts, err := buildBatchOptions(args, batchFlags{
		Output:    outputFlag,
		OutputDir: outputDirFlag,
		Language:  languageFlag,
		Formats:   formatFlag,
	}, app.Config)
	if err != nil {
		return err
	}

	progress := tui.NewBatchProgress(cmd.OutOrStdout(), quietFlag)
	start := time.Now()

	result, err := app.Runner.Run(cmd.Context(), opts, newProgressObserver(progress, opts.Folder))
	if err != nil {
		if errors.Is(err, domain.ErrNoAudioFiles) {
			progress.Status(fmt.Sprintf("Supported formats: %v", domain.SupportedExtensions))
		}
		return err
	}

	progress.Complete(tui.Summary{
		Total:       result.Summary.Total,
		Succeeded:   result.Summary.Succeeded,
		SuccessRate: result.Summary.SuccessRate,
		Elapsed:     time.Since(start),
		Reports:     result.Reports,
	})
	return nil
}
