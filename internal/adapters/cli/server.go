package cli

import (
	"fmt"

	"github.com/devbush/audio-transcriber/internal/adapters/httpapi"
	"github.com/devbush/audio-transcriber/internal/config"
	"github.com/spf13/cobra"
)

var (
	hostFlag    string
	portFlag    int
	reloadFlag  bool
	workersFlag int
)

// NewServerCmd creates the server command
func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the HTTP API",
		Long: `Serve the transcription API until interrupted.

Example:
  audio-transcriber server --host 0.0.0.0 --port 8000 --workers 4`,
		Args: cobra.NoArgs,
		RunE: runServer,
	}

	cmd.Flags().StringVar(&hostFlag, "host", "", "Bind address (default server.host)")
	cmd.Flags().IntVar(&portFlag, "port", 0, "Listen port (default server.port)")
	cmd.Flags().BoolVar(&reloadFlag, "reload", false, "Restart on source changes (not supported by compiled binaries)")
	cmd.Flags().IntVar(&workersFlag, "workers", 0, "Concurrent transcription requests (default server.workers)")
	return cmd
}

// applyServerFlags copies explicitly set flags onto the server config
func applyServerFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = hostFlag
	}
	if flags.Changed("port") {
		cfg.Server.Port = portFlag
	}
	if flags.Changed("reload") {
		cfg.Server.Reload = reloadFlag
	}
	if flags.Changed("workers") {
		cfg.Server.Workers = workersFlag
	}
	return cfg.Validate()
}

func runServer(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	if err := applyServerFlags(cmd, app.Config); err != nil {
		return err
	}

	log := app.Log.With().Str("component", "cli").Logger()
	if app.Config.Server.Reload {
		log.Warn().Msg("--reload is not supported by the compiled binary; ignoring")
	}
	if !app.Transcriber.Available() {
		log.Warn().Msg("no OpenAI API key configured; transcription endpoints will return 503")
	}

	srv := httpapi.New(httpapi.ConfigFrom(app.Config), app.Service, app.Log)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s:%d (Ctrl+C to stop)\n", app.Config.Server.Host, app.Config.Server.Port)
	return srv.Run(cmd.Context())
}
