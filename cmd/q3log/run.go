package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/q3log/q3log-go/internal/config"
	"github.com/q3log/q3log-go/internal/metrics"
	"github.com/q3log/q3log-go/internal/store/sqlite"
	"github.com/q3log/q3log-go/pkg/q3log"
	"github.com/q3log/q3log-go/pkg/q3log/pipeline"
)

// runner drives one feed through the pipeline into the renderer and the
// optional sinks.
type runner struct {
	cfg      *config.Config
	log      *slog.Logger
	out      io.Writer
	recorder *metrics.Recorder // optional
}

func (r *runner) feedOptions() ([]q3log.FeedOption, error) {
	parsers, err := buildParsers(r.cfg.Patterns)
	if err != nil {
		return nil, err
	}
	return []q3log.FeedOption{
		q3log.WithParsers(parsers...),
		q3log.WithLogger(r.log),
		q3log.WithPollInterval(r.cfg.PollInterval),
	}, nil
}

func (r *runner) run(ctx context.Context, feed *q3log.Feed) error {
	pcfg, err := r.cfg.Pipeline(r.log)
	if err != nil {
		return err
	}
	p, err := pipeline.Assemble(pcfg)
	if err != nil {
		return err
	}
	r.log.Debug("pipeline assembled", "source", feed.Name(), "analyses", pcfg.Analyses, "stages", p.Stages())

	rend, err := newRenderer(r.cfg.Format, r.out)
	if err != nil {
		return err
	}

	var store *sqlite.Store
	var runID string
	if r.cfg.SQLitePath != "" {
		store, err = sqlite.Open(r.cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer store.Close()
		if runID, err = store.BeginRun(ctx, feed.Name()); err != nil {
			return err
		}
		r.log.Debug("storing summaries", "run", runID)
	}

	events := feed.Events(ctx)
	if r.recorder != nil {
		events = r.recorder.ObserveEvents(events)
	}
	results := p.Run(events)
	if r.recorder != nil {
		results = r.recorder.ObserveResults(results)
	}

	if err := rend.Begin(); err != nil {
		return err
	}
	game := 0
	for summary, err := range results {
		game++
		if err != nil {
			if r.cfg.Verbose {
				r.log.Warn("match failed", "game", game, "error", err)
			}
			if r.cfg.StopOnFirstError() {
				// close the document so what was written stays well formed
				_ = rend.End()
				return fmt.Errorf("game %d: %w", game, err)
			}
			continue
		}

		if err := rend.Game(game, summary); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
		if store != nil {
			if err := store.PutSummary(ctx, runID, game, summary); err != nil {
				return err
			}
		}
	}
	return rend.End()
}
