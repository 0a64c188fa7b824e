package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/q3log/q3log-go/internal/config"
)

// flagKeys maps command line flags onto configuration keys. Flags not
// listed here (--config, --from-start, --poll) are not configuration.
var flagKeys = map[string]string{
	"log-file":       "log_file",
	"format":         "format",
	"verbose":        "verbose",
	"debug":          "debug",
	"extended":       "extended",
	"pedantic":       "pedantic",
	"analyses":       "analyses",
	"patterns":       "patterns",
	"sqlite":         "sqlite_path",
	"metrics-addr":   "metrics_addr",
	"poll-interval":  "poll_interval",
	"stop-on-errors": "stop_on_errors",
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "q3log",
		Short: "Summarize Quake 3 Arena server logs",
		Long: `q3log reads a Quake 3 Arena server log (games.log) and prints one
summary per match: total kills, players, frags per player and, with
--extended, kills by means of death, the scores reported by the server and
the players that disconnected.

Settings are read from a YAML file (--config or $Q3LOG_CONFIG), then from
Q3LOG_* environment variables, then from flags.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolP("verbose", "v", false,
		"Log feed errors, ignored events and failed matches to stderr")
	root.PersistentFlags().Bool("debug", false,
		"Trace every raw event to stderr")
	root.PersistentFlags().StringP("config", "c", "",
		"YAML configuration file")

	root.AddCommand(newSummarizeCmd(), newFollowCmd(), newCompletionCmd())
	return root
}

// addPipelineFlags registers the flags shared by summarize and follow.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("log-file", "l", "",
		"Server log to read; the positional argument sets it too")
	cmd.Flags().StringP("format", "f", "json",
		"Output format: "+strings.Join(config.Formats, ", "))
	cmd.Flags().BoolP("extended", "e", false,
		"Enable every analysis (means of death, player identity, reported scores)")
	cmd.Flags().BoolP("pedantic", "p", false,
		"Stop on the first error and check player names of every frag")
	cmd.Flags().Bool("stop-on-errors", false,
		"Stop on the first failed match")
	cmd.Flags().StringSlice("analyses", nil,
		"Explicit analysis set (comma-separated: kills,means_of_death,player_identity,reported_scores)")
	cmd.Flags().StringSlice("patterns", nil,
		"YAML pattern files for modded server logs (can be repeated)")
	cmd.Flags().String("sqlite", "",
		"Store every match summary in this SQLite database")
	registerFlagCompletions(cmd)
}

// loadConfig layers the explicitly set flags of cmd over the file and
// environment configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	overrides := make(map[string]any)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			overrides[key] = sv.GetSlice()
			return
		}
		overrides[key] = f.Value.String()
	})

	path, _ := cmd.Flags().GetString("config")
	return config.Load(config.LoadOptions{Path: path, Overrides: overrides})
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel()}))
}
