package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsphweid/fugue/evolve"
)

var (
	configPath string
	verbose    bool
	logger     = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

var rootCmd = &cobra.Command{
	Use:   "fugue",
	Short: "Evolves short musical passages",
	Long: `fugue searches for short passages with a genetic algorithm. Passages
are scored by named styles, some of which judge a second voice against a
given melody.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file overlaid on the default run config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log per-generation stats")
}

// loadConfig returns the defaults, overlaid with --config when given.
func loadConfig() (evolve.Config, error) {
	if configPath == "" {
		return evolve.DefaultConfig(), nil
	}
	return evolve.LoadConfig(configPath)
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
