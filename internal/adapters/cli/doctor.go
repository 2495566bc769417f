package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/devbush/audio-transcriber/internal/adapters/cli/tui"
	"github.com/devbush/audio-transcriber/internal/adapters/ffmpeg"
	"github.com/devbush/audio-transcriber/internal/config"
	"github.com/spf13/cobra"
)

var installFFmpegFlag bool

// NewDoctorCmd creates the doctor command
func NewDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the API key, ffmpeg and configuration",
		Args:  cobra.NoArgs,
		RunE:  runDoctor,
	}
	cmd.Flags().BoolVar(&installFFmpegFlag, "install-ffmpeg", false, "Download a static ffmpeg build into "+config.BinDir())
	return cmd
}

func runDoctor(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	out := cmd.OutOrStdout()
	steps := tui.NewProgressDisplay(out, []string{
		"Config file",
		"API key",
		"Whisper backend",
		"ffmpeg",
		"Output folder",
	}, false)

	steps.StartStep(0)
	if _, err := os.Stat(app.ConfigPath); err == nil {
		steps.CompleteStep(0, app.ConfigPath)
	} else {
		steps.WarnStep(0, "not found, using defaults ("+app.ConfigPath+")")
	}

	steps.StartStep(1)
	if app.Transcriber.Available() {
		steps.CompleteStep(1, tui.Mask(app.Config.OpenAI.APIKey))
	} else {
		steps.FailStep(1, "set OPENAI_API_KEY or pass --api-key")
	}

	steps.StartStep(2)
	backend := app.Config.OpenAI.BaseURL
	if backend == "" {
		backend = "https://api.openai.com/v1"
	}
	steps.CompleteStep(2, fmt.Sprintf("%s (%s, %d MB limit)", backend, app.Transcriber.Name(), app.Config.Transcription.MaxFileSizeMB))

	steps.StartStep(3)
	var installErr error
	if !app.Normalizer.IsAvailable() && installFFmpegFlag {
		installErr = installFFmpeg(cmd, app)
	}
	if installErr != nil {
		steps.FailStep(3, installErr.Error())
	} else if app.Normalizer.IsAvailable() {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		version, err := app.Normalizer.Version(ctx)
		cancel()
		if err != nil {
			version = err.Error()
		}
		detail := app.Normalizer.BinaryPath() + " " + version
		if !app.Config.Transcription.ConvertUnsupported {
			detail += " (conversion disabled)"
		}
		steps.CompleteStep(3, detail)
	} else {
		steps.WarnStep(3, "not found; formats such as .opus and .wma will be skipped")
	}

	steps.StartStep(4)
	if info, err := os.Stat(app.Config.Paths.OutputFolder); err == nil && info.IsDir() {
		steps.CompleteStep(4, app.Config.Paths.OutputFolder)
	} else {
		steps.WarnStep(4, app.Config.Paths.OutputFolder+" does not exist yet; it will be created")
	}

	steps.Complete(nil)
	if !app.Normalizer.IsAvailable() {
		fmt.Fprintf(out, "\nTo install ffmpeg:\n%s\n", ffmpeg.Instructions())
	}
	if steps.Failed() {
		return errors.New("doctor found problems")
	}
	return nil
}

func installFFmpeg(cmd *cobra.Command, app *App) error {
	inst, err := ffmpeg.NewInstaller(config.BinDir(), app.Log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Downloading %s\n", inst.URL())
	path, err := inst.Install(cmd.Context(), func(downloaded, total int64) {
		if total > 0 {
			fmt.Fprintf(out, "\r  %s / %s", tui.FormatSize(downloaded), tui.FormatSize(total))
		}
	})
	fmt.Fprintln(out)
	if err != nil {
		return err
	}

	app.Normalizer = ffmpeg.NewNormalizer(path, app.Log)
	return nil
}
