package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by the Summarizer and the Assembler.
var (
	// ErrEventModelViolation is wrapped by every Violation.
	ErrEventModelViolation = errors.New("violated the event model")

	// ErrGameAlreadyStarted: a NewGame arrived while a summary was open.
	ErrGameAlreadyStarted = errors.New("two InitGame events received before a ShutdownGame")

	// ErrGameNotStarted: a game end arrived while no summary was open.
	ErrGameNotStarted = errors.New("game ended, but it was never started")

	// ErrPlayerAlreadyRegistered: AddPlayer for a name already in the match.
	ErrPlayerAlreadyRegistered = errors.New("player is already registered")

	// ErrPlayerNotRegistered: DeletePlayer for a name not in the match.
	ErrPlayerNotRegistered = errors.New("player was not registered")

	// ErrFeed wraps in-band feed errors surfaced when Config.StopOnFeedErrors is set.
	ErrFeed = errors.New("feed error")

	// ErrUnsupportedAnalyses: Config.Analyses is not one of SupportedAnalyses.
	ErrUnsupportedAnalyses = errors.New("unsupported combination of analyses")
)

// EventError is the failure of one Summarizer item, tied to the raw event
// that caused it.
type EventError struct {
	SequenceID uint32
	Err        error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("event #%d: %v", e.SequenceID, e.Err)
}

func (e *EventError) Unwrap() error {
	return e.Err
}
