package pipeline

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/q3log/q3log-go/pkg/q3log/event"
)

// ComposeLifecycle is the first stage. It turns raw events into composites
// and enforces the InitGame / Exit / ShutdownGame state machine. An Exit
// inside a match is absorbed and only decides how the following
// ShutdownGame ends it.
func ComposeLifecycle(cfg Config, events iter.Seq[event.Event]) iter.Seq[Composite] {
	return transform(events, func() *lifecycle {
		return &lifecycle{cfg: cfg, log: cfg.logger()}
	})
}

type lifecycle struct {
	cfg Config
	log *slog.Logger

	inGame             bool
	pendingGracefulEnd bool
}

func (l *lifecycle) step(ev event.Event, yield func(Composite) bool) bool {
	l.log.Debug("raw event", "seq", ev.SequenceID, "type", ev.Type, "line", ev.Line)

	seq := ev.SequenceID
	switch ev.Type {
	case event.InitGame:
		if l.inGame {
			return yield(violation(seq, Violation{Kind: DoubleInit}))
		}
		l.inGame = true
		l.pendingGracefulEnd = false
		return yield(Logic(LogicEvent{Kind: NewGame, SequenceID: seq}))

	case event.Exit:
		if !l.inGame {
			return yield(violation(seq, Violation{Kind: GameNotStarted}))
		}
		l.pendingGracefulEnd = true
		return true

	case event.ShutdownGame:
		if !l.inGame {
			return yield(violation(seq, Violation{Kind: GameNotStarted}))
		}
		l.inGame = false
		kind := GameEndedManually
		if l.pendingGracefulEnd {
			kind = GameEndedGracefully
		}
		l.pendingGracefulEnd = false
		return yield(Logic(LogicEvent{Kind: kind, SequenceID: seq}))

	case event.Error:
		if l.cfg.LogIssues {
			l.log.Warn("feed error", "seq", seq, "message", ev.Message)
		}
		ev.Message = fmt.Sprintf("%s (event #%d)", ev.Message, seq)
		return yield(GameEvent(ev))
	}
	return yield(GameEvent(ev))
}
