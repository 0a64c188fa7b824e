package q3log

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrFeedNotFound is returned by OpenFeed when the log does not exist.
	ErrFeedNotFound = errors.New("feed not found")

	// ErrFeedConsumed is reported in-band when Feed.Events is iterated a
	// second time.
	ErrFeedConsumed = errors.New("feed already consumed")

	// ErrFeedClosed is reported in-band when Feed.Events runs after Close.
	ErrFeedClosed = errors.New("feed closed")

	// ErrFollowNeedsFile is returned when follow mode is requested on a
	// stream instead of a file.
	ErrFollowNeedsFile = errors.New("follow mode requires a log file")

	// ErrLineTooLong is reported in-band for a line longer than the
	// WithMaxLineBytes limit. The line is skipped and reading goes on.
	ErrLineTooLong = errors.New("line too long")
)

// ParseError is a line that could not be parsed. Feeds report it in-band, as
// the Message of an Error event.
type ParseError struct {
	Source string // feed name, e.g. the file path or "<stdin>"
	Line   int    // 1-based line number
	Text   string // the offending line
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FeedOp identifies the feed operation that failed.
type FeedOp string

const (
	FeedOpOpen   FeedOp = "open"
	FeedOpRead   FeedOp = "read"
	FeedOpTail   FeedOp = "tail"
	FeedOpRotate FeedOp = "rotate"
)

// FeedError is an I/O failure of a feed.
type FeedError struct {
	Op   FeedOp
	Path string
	Err  error
}

func (e *FeedError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}
