package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	postToSlack bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "gemlens",
	Short: "Gemlens - decision engine for Intelligems A/B tests",
	Long: `Gemlens reads experiment analytics from the Intelligems API and turns
them into decisions: verdicts, funnel diagnostics, segment spotlights,
revenue impact projections, and rollout recommendations.

Set INTELLIGEMS_API_KEY (or api.key in gemlens.yaml) before running.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./gemlens.yaml)")
	rootCmd.PersistentFlags().BoolVar(&postToSlack, "slack", false, "also post the report to the configured Slack webhook")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log API requests")
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
