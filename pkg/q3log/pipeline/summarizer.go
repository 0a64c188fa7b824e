package pipeline

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/q3log/q3log-go/pkg/q3log/event"
)

// Summarize is the terminal stage. It folds logic events into one summary
// per match and yields it when the match ends. Failures are per item: an
// *EventError is yielded and the sequence goes on.
//
// Raw events reaching this stage are ignored, except feed errors when
// cfg.StopOnFeedErrors is set. Logic events arriving outside of a match are
// dropped.
func Summarize(cfg Config, in iter.Seq[Composite]) iter.Seq2[*MatchSummary, error] {
	return func(yield func(*MatchSummary, error) bool) {
		s := &summarizer{cfg: cfg, log: cfg.logger()}
		for c := range in {
			summary, err := s.fold(c)
			if summary == nil && err == nil {
				continue
			}
			if err != nil {
				err = &EventError{SequenceID: c.SequenceID(), Err: err}
			}
			if !yield(summary, err) {
				return
			}
		}
	}
}

type summarizer struct {
	cfg Config
	log *slog.Logger

	current *MatchSummary
}

// fold applies c to the open summary. It returns the closed summary when c
// ends a match, an error when c fails, or neither.
func (s *summarizer) fold(c Composite) (*MatchSummary, error) {
	if c.Game != nil {
		if c.Game.Type == event.Error && s.cfg.StopOnFeedErrors {
			return nil, fmt.Errorf("%w: %s", ErrFeed, c.Game.Message)
		}
		return nil, nil
	}
	if c.Logic == nil {
		return nil, nil
	}

	le := c.Logic
	switch le.Kind {
	case NewGame:
		if s.current != nil {
			return nil, ErrGameAlreadyStarted
		}
		s.current = newMatchSummary()
		return nil, nil

	case GameEndedGracefully, GameEndedManually:
		if s.current == nil {
			return nil, ErrGameNotStarted
		}
		done := s.current
		s.current = nil
		return done, nil

	case EventModelViolation:
		return nil, *le.Violation
	}

	if s.current == nil {
		if s.cfg.LogIssues {
			s.log.Warn("ignoring event outside of a game", "seq", le.SequenceID, "kind", le.Kind)
		}
		return nil, nil
	}
	return nil, s.apply(le)
}

func (s *summarizer) apply(le *LogicEvent) error {
	cur := s.current
	switch le.Kind {
	case AddPlayer:
		if cur.HasPlayer(le.Name) {
			return fmt.Errorf("player id: %d, name: %q: %w", le.ClientID, le.Name, ErrPlayerAlreadyRegistered)
		}
		cur.Players[le.Name] = struct{}{}

	case RenamePlayer:
		cur.rename(le.OldName, le.NewName)

	case DeletePlayer:
		if frags, ok := cur.Kills[le.Name]; ok {
			delete(cur.Kills, le.Name)
			cur.Disconnected = append(cur.Disconnected, DisconnectedPlayer{ID: le.ClientID, Name: le.Name, Frags: frags})
		}
		if !cur.HasPlayer(le.Name) {
			return fmt.Errorf("player id: %d, name: %q: %w", le.ClientID, le.Name, ErrPlayerNotRegistered)
		}
		delete(cur.Players, le.Name)

	case MeanOfDeath:
		cur.addMeanOfDeath(le.Reason)

	case IncFrags:
		cur.adjustFrags(le.Name, 1)

	case DecFrags:
		cur.adjustFrags(le.Name, -1)

	case ReportedScore:
		cur.reportScore(le.Name, int(le.Frags))
	}
	return nil
}
