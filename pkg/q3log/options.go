package q3log

import (
	"fmt"
	"log/slog"
	"time"
)

// FeedOption configures OpenFeed and NewFeed using the functional options
// pattern.
type FeedOption func(*feedConfig)

type feedConfig struct {
	parser         Parser
	logger         *slog.Logger
	includeRawLine bool
	sourceName     string
	maxLineBytes   int

	follow       bool
	fromStart    bool
	polling      bool
	pollInterval time.Duration
}

func defaultFeedConfig() *feedConfig {
	return &feedConfig{
		parser:       DefaultParser{},
		maxLineBytes: 512 * 1024,
		pollInterval: 2 * time.Second,
	}
}

func applyFeedOptions(opts []FeedOption) *feedConfig {
	cfg := defaultFeedConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

func (c *feedConfig) validate() error {
	if c.pollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.pollInterval)
	}
	if c.maxLineBytes < 0 {
		return fmt.Errorf("maxLineBytes must be non-negative, got %d", c.maxLineBytes)
	}
	return nil
}

// WithParser replaces DefaultParser. A nil p has no effect.
func WithParser(p Parser) FeedOption {
	return func(c *feedConfig) {
		if p != nil {
			c.parser = p
		}
	}
}

// WithParsers tries the parsers in order and keeps the events of the first
// one that matches (ChainFirst). Put custom parsers before DefaultParser.
func WithParsers(parsers ...Parser) FeedOption {
	return func(c *feedConfig) {
		if len(parsers) > 0 {
			c.parser = &ParserChain{Mode: ChainFirst, Parsers: parsers}
		}
	}
}

// WithLogger sets the logger for debug output. Nil disables logging
// (default).
func WithLogger(logger *slog.Logger) FeedOption {
	return func(c *feedConfig) {
		c.logger = logger
	}
}

// WithIncludeRawLine copies the original line into Event.RawLine.
// Default: false.
func WithIncludeRawLine(include bool) FeedOption {
	return func(c *feedConfig) {
		c.includeRawLine = include
	}
}

// WithSourceName sets the name used in in-band error messages.
// Default: the file path, or "<stdin>".
func WithSourceName(name string) FeedOption {
	return func(c *feedConfig) {
		c.sourceName = name
	}
}

// WithMaxLineBytes limits the length of a line, newline included. Longer
// lines are skipped and reported in-band with ErrLineTooLong.
// 0 means the bufio default (64KB).
// Default: 512KB.
func WithMaxLineBytes(max int) FeedOption {
	return func(c *feedConfig) {
		c.maxLineBytes = max
	}
}

// WithFollow keeps the feed open at end of file and delivers the lines the
// server appends, like tail -f, until the context is cancelled.
// Default: false.
func WithFollow(follow bool) FeedOption {
	return func(c *feedConfig) {
		c.follow = follow
	}
}

// WithFromStart makes a following feed read the existing content first.
// Default: false (only new lines). Non-follow feeds always read everything.
func WithFromStart(fromStart bool) FeedOption {
	return func(c *feedConfig) {
		c.fromStart = fromStart
	}
}

// WithPolling makes a following feed poll the file instead of relying on
// filesystem notifications. Needed on some network filesystems.
func WithPolling(poll bool) FeedOption {
	return func(c *feedConfig) {
		c.polling = poll
	}
}

// WithPollInterval sets how often a feed following a directory checks for
// a newer log file. Default: 2 seconds.
func WithPollInterval(interval time.Duration) FeedOption {
	return func(c *feedConfig) {
		c.pollInterval = interval
	}
}
