// Package tailer follows a growing log file.
package tailer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nxadm/tail"
)

// errBuffer keeps a few errors around while the consumer is busy.
const errBuffer = 16

// Config configures a Tailer.
type Config struct {
	// FromStart reads the existing content before following.
	// When false only lines appended after New are delivered.
	FromStart bool

	// ReOpen follows the path across truncation and rotation.
	ReOpen bool

	// Poll checks the file for changes by polling instead of using
	// filesystem notifications.
	Poll bool
}

// DefaultConfig follows the end of the file and reopens it on rotation.
func DefaultConfig() Config {
	return Config{ReOpen: true}
}

// Tailer delivers the lines appended to a file until it is stopped or its
// context is cancelled.
type Tailer struct {
	path string
	t    *tail.Tail

	lines chan string
	errs  chan error

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	stopErr  error
}

// New starts following path. The file must exist.
func New(ctx context.Context, path string, cfg Config) (*Tailer, error) {
	whence := io.SeekEnd
	if cfg.FromStart {
		whence = io.SeekStart
	}

	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    cfg.ReOpen,
		Poll:      cfg.Poll,
		MustExist: true,
		Location:  &tail.SeekInfo{Offset: 0, Whence: whence},
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("tailing %s: %w", path, err)
	}

	tl := &Tailer{
		path:  path,
		t:     t,
		lines: make(chan string),
		errs:  make(chan error, errBuffer),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go tl.run(ctx)
	return tl, nil
}

// Path returns the followed file.
func (tl *Tailer) Path() string {
	return tl.path
}

// Lines returns the channel of lines, without line terminators. It is
// closed when the tailer stops.
func (tl *Tailer) Lines() <-chan string {
	return tl.lines
}

// Errors returns read errors. It is closed when the tailer stops.
func (tl *Tailer) Errors() <-chan error {
	return tl.errs
}

// Stop stops following and waits for the delivery goroutine to exit.
// Safe to call multiple times.
func (tl *Tailer) Stop() error {
	tl.stopOnce.Do(func() {
		close(tl.stop)
		tl.stopErr = tl.t.Stop()
		tl.t.Cleanup()
		<-tl.done
	})
	return tl.stopErr
}

func (tl *Tailer) run(ctx context.Context) {
	defer close(tl.done)
	defer close(tl.errs)
	defer close(tl.lines)

	for {
		select {
		case <-ctx.Done():
			return
		case <-tl.stop:
			return
		case line, ok := <-tl.t.Lines:
			if !ok {
				return
			}
			if line.Err != nil {
				tl.sendError(fmt.Errorf("reading %s: %w", tl.path, line.Err))
				continue
			}
			select {
			case tl.lines <- strings.TrimSuffix(line.Text, "\r"):
			case <-ctx.Done():
				return
			case <-tl.stop:
				return
			}
		}
	}
}

func (tl *Tailer) sendError(err error) {
	select {
	case tl.errs <- err:
	default:
		// buffer full
	}
}
