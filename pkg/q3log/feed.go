package q3log

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/q3log/q3log-go/internal/logfinder"
	"github.com/q3log/q3log-go/internal/safefile"
	"github.com/q3log/q3log-go/internal/tailer"
)

// StdinName is the source name of a feed reading standard input.
const StdinName = "<stdin>"

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Feed is an ordered, lazily read source of raw events.
//
// Every item of a feed, Error events included, carries a SequenceID that
// starts at 1 and increases by one. Lines without events (blank lines,
// separators, chat) do not consume ids.
type Feed struct {
	cfg  feedConfig
	name string
	log  *slog.Logger

	r      io.Reader // non-follow source
	closer io.Closer // nil when the reader is not ours to close
	path   string    // followed file
	dir    string    // followed directory, for rotation

	mu      sync.Mutex
	started bool
	closed  bool
	cancel  context.CancelFunc
}

// OpenFeed opens the feed named by locator:
//
//   - "" or "-": standard input
//   - a file path: that file
//   - a directory: its most recently modified *.log file
//
// Opening fails immediately when the log cannot be found (the error wraps
// ErrFeedNotFound) or is not a regular file. Nothing is read until
// Feed.Events is iterated.
func OpenFeed(locator string, opts ...FeedOption) (*Feed, error) {
	cfg := applyFeedOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	if locator == "" || locator == "-" {
		if cfg.follow {
			return nil, ErrFollowNeedsFile
		}
		return newFeed(cfg, StdinName, os.Stdin, nil), nil
	}

	path, err := logfinder.FindLogFile(locator)
	if err != nil {
		if errors.Is(err, logfinder.ErrLogNotFound) || errors.Is(err, logfinder.ErrNoLogFiles) {
			err = fmt.Errorf("%w: %w", ErrFeedNotFound, err)
		}
		return nil, &FeedError{Op: FeedOpOpen, Path: locator, Err: err}
	}

	if cfg.follow {
		if _, err := safefile.Check(path); err != nil {
			return nil, &FeedError{Op: FeedOpOpen, Path: path, Err: err}
		}
		f := newFeed(cfg, path, nil, nil)
		f.path = path
		if path != locator {
			f.dir = locator
		}
		return f, nil
	}

	file, err := safefile.OpenLog(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %w", ErrFeedNotFound, err)
		}
		return nil, &FeedError{Op: FeedOpOpen, Path: path, Err: err}
	}
	return newFeed(cfg, path, file, file), nil
}

// NewFeed reads events from r. The caller keeps ownership of r.
// Follow mode is not available for readers.
func NewFeed(r io.Reader, opts ...FeedOption) (*Feed, error) {
	cfg := applyFeedOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if cfg.follow {
		return nil, ErrFollowNeedsFile
	}
	return newFeed(cfg, "<stream>", r, nil), nil
}

func newFeed(cfg *feedConfig, name string, r io.Reader, closer io.Closer) *Feed {
	if cfg.sourceName != "" {
		name = cfg.sourceName
	}
	log := cfg.logger
	if log == nil {
		log = discardLogger
	}
	return &Feed{cfg: *cfg, name: name, log: log, r: r, closer: closer}
}

// Name returns the source name used in error messages.
func (f *Feed) Name() string {
	return f.name
}

// Events returns the events of the feed. The sequence can be iterated
// once; a second iteration yields a single Error event.
//
// Read and parse failures are yielded in-band as Error events whose
// Message reads "source:line: reason"; the sequence goes on after parse
// failures. It ends at end of input (never, in follow mode), when ctx is
// cancelled, or when the feed is closed.
func (f *Feed) Events(ctx context.Context) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		if err := f.begin(cancel); err != nil {
			yield(Event{Type: EventError, SequenceID: 1, Message: fmt.Sprintf("%s: %v", f.name, err)})
			return
		}

		lines := f.scanLines(ctx)
		if f.cfg.follow {
			lines = f.tailLines(ctx)
		}

		var seq uint32
		emit := func(ev Event) bool {
			seq++
			ev.SequenceID = seq
			return yield(ev)
		}

		lineNo := 0
		for line, err := range lines {
			if err != nil {
				if errors.Is(err, ErrLineTooLong) {
					lineNo++
				}
				f.log.Debug("feed error", "source", f.name, "error", err)
				if !emit(Event{Type: EventError, Line: lineNo, Message: err.Error()}) {
					return
				}
				continue
			}
			lineNo++

			res, perr := f.cfg.parser.ParseLine(ctx, line)
			if ctx.Err() != nil {
				return
			}
			// events first: a ChainContinueOnError chain reports both
			for _, ev := range res.Events {
				if ev.Line == 0 {
					ev.Line = lineNo
				}
				if f.cfg.includeRawLine {
					ev.RawLine = line
				}
				if !emit(ev) {
					return
				}
			}
			if perr != nil {
				pe := &ParseError{Source: f.name, Line: lineNo, Text: line, Err: perr}
				f.log.Debug("parse error", "error", pe)
				ev := Event{Type: EventError, Line: lineNo, Message: pe.Error()}
				if f.cfg.includeRawLine {
					ev.RawLine = line
				}
				if !emit(ev) {
					return
				}
			}
		}
	}
}

// Close stops a running iteration and releases the file. Safe to call
// multiple times.
func (f *Feed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	cancel := f.cancel
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

func (f *Feed) begin(cancel context.CancelFunc) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFeedClosed
	}
	if f.started {
		return ErrFeedConsumed
	}
	f.started = true
	f.cancel = cancel
	return nil
}

// scanLines reads f.r to the end. A line longer than maxLineBytes is
// skipped up to its newline and reported as ErrLineTooLong.
func (f *Feed) scanLines(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		limit := f.cfg.maxLineBytes
		if limit <= 0 {
			limit = bufio.MaxScanTokenSize
		}
		br := bufio.NewReaderSize(f.r, limit)
		for {
			line, err := br.ReadSlice('\n')
			if errors.Is(err, bufio.ErrBufferFull) {
				err = skipLine(br)
				if ctx.Err() != nil {
					return
				}
				if !yield("", &FeedError{Op: FeedOpRead, Path: f.name, Err: ErrLineTooLong}) {
					return
				}
				line = nil
			}
			if len(line) > 0 {
				if ctx.Err() != nil {
					return
				}
				if !yield(string(dropEOL(line)), nil) {
					return
				}
			}
			if err != nil {
				// a read failing because of Close is not an error
				if err != io.EOF && ctx.Err() == nil {
					yield("", &FeedError{Op: FeedOpRead, Path: f.name, Err: err})
				}
				return
			}
		}
	}
}

// skipLine discards input up to and including the next newline.
func skipLine(br *bufio.Reader) error {
	for {
		_, err := br.ReadSlice('\n')
		if !errors.Is(err, bufio.ErrBufferFull) {
			return err
		}
	}
}

func dropEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}

// tailLines follows f.path. When the feed was opened on a directory it
// also switches to a newer log file as soon as one appears.
func (f *Feed) tailLines(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		cfg := tailer.DefaultConfig()
		cfg.FromStart = f.cfg.fromStart
		cfg.Poll = f.cfg.polling

		t, err := tailer.New(ctx, f.path, cfg)
		if err != nil {
			yield("", &FeedError{Op: FeedOpTail, Path: f.path, Err: err})
			return
		}
		defer func() { _ = t.Stop() }()
		f.log.Debug("started tailing", "path", f.path, "from_start", cfg.FromStart)

		var rotation <-chan time.Time
		if f.dir != "" {
			ticker := time.NewTicker(f.cfg.pollInterval)
			defer ticker.Stop()
			rotation = ticker.C
		}

		for {
			select {
			case <-ctx.Done():
				return
			case line, ok := <-t.Lines():
				if !ok {
					return
				}
				if !yield(line, nil) {
					return
				}
			case err, ok := <-t.Errors():
				if !ok {
					return
				}
				if !yield("", &FeedError{Op: FeedOpRead, Path: t.Path(), Err: err}) {
					return
				}
			case <-rotation:
				latest, err := logfinder.FindLatestLogFile(f.dir)
				if err != nil {
					if !yield("", &FeedError{Op: FeedOpRotate, Path: f.dir, Err: err}) {
						return
					}
					continue
				}
				if latest == t.Path() {
					continue
				}
				f.log.Debug("log rotation detected", "from", t.Path(), "to", latest)
				_ = t.Stop()

				next := tailer.DefaultConfig()
				next.FromStart = true
				next.Poll = f.cfg.polling
				nt, err := tailer.New(ctx, latest, next)
				if err != nil {
					yield("", &FeedError{Op: FeedOpTail, Path: latest, Err: err})
					return
				}
				t = nt
			}
		}
	}
}
