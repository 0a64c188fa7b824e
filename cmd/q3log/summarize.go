package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/q3log/q3log-go/pkg/q3log"
)

func newSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize [log-file]",
		Short: "Print one summary per match of a server log",
		Long: `Read a Quake 3 Arena server log to the end and print one summary per
match. Without a log file, standard input is read.

Examples:
  # Baseline summary of a log file
  q3log summarize games.log

  # Every analysis, YAML output
  q3log summarize --extended --format yaml games.log

  # Stop at the first inconsistency
  q3log summarize --pedantic games.log

  # Read from a pipe and store the summaries
  zcat games.log.gz | q3log summarize --sqlite summaries.db`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSummarize,
	}

	addPipelineFlags(cmd)
	return cmd
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		if err := cmd.Flags().Set("log-file", args[0]); err != nil {
			return err
		}
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := &runner{cfg: cfg, log: log, out: cmd.OutOrStdout()}
	opts, err := r.feedOptions()
	if err != nil {
		return err
	}

	var feed *q3log.Feed
	if cfg.LogFile == "" || cfg.LogFile == "-" {
		feed, err = q3log.NewFeed(cmd.InOrStdin(), append(opts, q3log.WithSourceName(q3log.StdinName))...)
	} else {
		feed, err = q3log.OpenFeed(cfg.LogFile, opts...)
	}
	if err != nil {
		return err
	}
	defer feed.Close()

	return r.run(ctx, feed)
}
