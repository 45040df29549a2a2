package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/licensedb/fsf-api/internal/api"
	"github.com/licensedb/fsf-api/internal/config"
	"github.com/licensedb/fsf-api/internal/core"
	"github.com/licensedb/fsf-api/internal/observability"
)

func main() {
	settings := config.Load()

	if err := rootCommand(settings).Execute(); err != nil {
		slog.Error("run failed",
			"error", err,
			"kind", observability.ClassifyError(err),
		)
		os.Exit(1)
	}
}

func rootCommand(settings *config.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fsfapi",
		Short:         "Generate a static JSON dataset from the FSF license list",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogging(settings.Debug)
	}

	rootCmd.AddCommand(pullCommand(settings), serveCommand(settings))
	return rootCmd
}

func pullCommand(settings *config.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Scrape the license list and write the JSON dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline := core.NewPipeline(settings)
			if err := pipeline.Run(cmd.Context()); err != nil {
				return err
			}
			slog.Info("pull complete", "stats", observability.Snapshot())
			return nil
		},
	}

	cmd.Flags().StringVar(&settings.Output.Dir, "dir", viper.GetString("output.dir"), "Directory to write the dataset to")
	cmd.Flags().StringVar(&settings.Source.URL, "source", viper.GetString("source.url"), "Upstream license-list URL (override for fixture testing)")
	cmd.Flags().StringVar(&settings.Output.BaseURI, "base-uri", viper.GetString("output.baseuri"), "Base URI of the published site")
	cmd.Flags().DurationVar(&settings.Source.Timeout, "timeout", viper.GetDuration("source.timeout"), "Fetch timeout")
	return cmd
}

func serveCommand(settings *config.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview a generated dataset directory over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := api.NewServer(settings.Output.Dir)
			slog.Info("serving dataset", "dir", settings.Output.Dir, "port", settings.Serve.Port)
			return http.ListenAndServe(":"+settings.Serve.Port, srv.Router())
		},
	}

	cmd.Flags().StringVar(&settings.Output.Dir, "dir", viper.GetString("output.dir"), "Dataset directory to serve")
	cmd.Flags().StringVar(&settings.Serve.Port, "port", viper.GetString("serve.port"), "Port to listen on")
	return cmd
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
