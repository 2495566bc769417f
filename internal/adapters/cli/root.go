package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/devbush/audio-transcriber/internal/adapters/cli/tui"
	"github.com/devbush/audio-transcriber/internal/config"
	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Global flags
	configFlag  string
	verboseFlag bool

	// Transcription flags, shared by the root command and transcribe
	outputFlag    string
	outputDirFlag string
	apiKeyFlag    string
	languageFlag  string
	formatFlag    string
	quietFlag     bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "audio-transcriber [folder]",
		Short: "Transcribe folders of audio files with the Whisper API",
		Long: `audio-transcriber sends every audio file in a folder to the OpenAI
Whisper API, one at a time, and writes the transcriptions to a report.

Provide a folder to transcribe it, or run without arguments for an
interactive menu.`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default ~/.audio-transcriber/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	addTranscribeFlags(rootCmd.Flags())

	rootCmd.AddCommand(NewTranscribeCmd())
	rootCmd.AddCommand(NewServerCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewLanguagesCmd())
	rootCmd.AddCommand(NewDoctorCmd())

	return rootCmd
}

func addTranscribeFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&outputFlag, "output", "o", "", "Report path; the extension picks the format (default transcriptions_<timestamp>.xlsx)")
	fs.StringVar(&outputDirFlag, "output-dir", "", "Directory for generated report names (default paths.output_folder)")
	fs.StringVarP(&apiKeyFlag, "api-key", "k", "", "OpenAI API key (overrides OPENAI_API_KEY)")
	fs.StringVarP(&languageFlag, "language", "l", "", "Two-letter language code; empty auto-detects")
	fs.StringVarP(&formatFlag, "format", "f", "", "Comma-separated report formats: xlsx, csv, txt, json")
	fs.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress progress output")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runInteractiveMenu(cmd)
	}
	return runTranscribe(cmd, args)
}

func runInteractiveMenu(cmd *cobra.Command) error {
	options := []tui.MenuOption{
		{Label: "Transcribe a folder", Value: "transcribe", Hint: "write a report of every audio file"},
		{Label: "Start the API server", Value: "server", Hint: "serve /transcribe over HTTP"},
		{Label: "Show configuration", Value: "config"},
		{Label: "Check dependencies", Value: "doctor", Hint: "API key and ffmpeg"},
	}

	selected, err := tui.RunMenu("What would you like to do?", options)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch selected {
	case "transcribe":
		return runTranscribeInteractive(cmd)
	case "server":
		return runServer(cmd, nil)
	case "config":
		return runConfigShow(cmd, nil)
	case "doctor":
		return runDoctor(cmd, nil)
	case "":
		fmt.Fprintln(out, "Cancelled")
	}
	return nil
}

func runTranscribeInteractive(cmd *cobra.Command) error {
	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	out := cmd.OutOrStdout()
	folder := prompt(cmd.InOrStdin(), out, "Audio folder", app.Config.Paths.AudioFolder)

	formats := make([]string, 0, len(domain.OutputFormats))
	for _, f := range domain.OutputFormats {
		formats = append(formats, string(f))
	}
	selected, err := tui.RunCheckbox("Report formats", tui.FormatOptions(formats, []string{string(domain.FormatXLSX)}))
	if err != nil {
		return err
	}
	if selected == nil {
		fmt.Fprintln(out, "Cancelled")
		return nil
	}

	formatFlag = strings.Join(selected, ",")
	return runTranscribe(cmd, []string{folder})
}

// prompt reads one line, falling back to def on empty input
func prompt(in io.Reader, out io.Writer, label, def string) string {
	if def != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}
	line, _ := bufio.NewReader(in).ReadString('\n')
	if line = strings.TrimSpace(line); line != "" {
		return line
	}
	return def
}

// exitCode maps a command error to the process exit status
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeApp()

	err := NewRootCmd().ExecuteContext(ctx)
	code := exitCode(err)
	switch code {
	case 0:
	case 130:
		fmt.Fprintln(os.Stderr, "\nInterrupted")
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return code
}

// configPath returns the config file the commands operate on
func configPath() string {
	if configFlag != "" {
		return configFlag
	}
	return config.ConfigPath()
}
