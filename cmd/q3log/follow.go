package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/q3log/q3log-go/internal/logfinder"
	"github.com/q3log/q3log-go/internal/metrics"
	"github.com/q3log/q3log-go/pkg/q3log"
)

func newFollowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "follow [log-file|log-dir]",
		Short: "Summarize matches of a running server as they end",
		Long: `Follow a live server log and print each match summary when the match
ends. The log is reopened when it is rotated; given a directory, the newest
*.log file in it is followed and switched to when a newer one appears.

Without an argument the log is searched in the current directory and the
usual baseq3 directories.

Examples:
  # Follow the running server
  q3log follow ~/.q3a/baseq3/games.log

  # Include the matches already in the log, expose prometheus metrics
  q3log follow --from-start --metrics-addr :9108 ~/.q3a/baseq3

  # One JSON object per match, for jq
  q3log follow --format jsonl | jq '.total_kills'`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFollow,
	}

	cmd.Flags().Bool("from-start", false,
		"Read the log from its beginning instead of its end")
	cmd.Flags().Bool("poll", false,
		"Poll the file for changes instead of using file system notifications")
	cmd.Flags().Duration("poll-interval", 2*time.Second,
		"Interval of the check for a newer log in a followed directory")
	cmd.Flags().String("metrics-addr", "",
		"Serve prometheus metrics on this address (e.g. :9108)")
	addPipelineFlags(cmd)
	return cmd
}

func runFollow(cmd *cobra.Command, args []string) error {
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

	locator := cfg.LogFile
	if locator == "" || locator == "-" {
		if locator, err = logfinder.FindLogFile(""); err != nil {
			return err
		}
	}

	r := &runner{cfg: cfg, log: log, out: cmd.OutOrStdout()}
	opts, err := r.feedOptions()
	if err != nil {
		return err
	}
	fromStart, _ := cmd.Flags().GetBool("from-start")
	poll, _ := cmd.Flags().GetBool("poll")
	opts = append(opts, q3log.WithFollow(true), q3log.WithFromStart(fromStart), q3log.WithPolling(poll))

	feed, err := q3log.OpenFeed(locator, opts...)
	if err != nil {
		return err
	}
	defer feed.Close()
	log.Info("following", "log", feed.Name())

	if cfg.MetricsAddr != "" {
		r.recorder = metrics.NewRecorder()
		shutdown, err := serveMetrics(ctx, cfg.MetricsAddr, r.recorder)
		if err != nil {
			return err
		}
		defer shutdown()
		log.Info("serving metrics", "addr", cfg.MetricsAddr)
	}

	err = r.run(ctx, feed)
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return err
}

// serveMetrics listens on addr and serves /metrics until the returned
// function is called.
func serveMetrics(ctx context.Context, addr string, rec *metrics.Recorder) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() { _ = srv.Serve(ln) }()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}, nil
}
