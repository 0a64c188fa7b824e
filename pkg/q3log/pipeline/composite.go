package pipeline

import (
	"fmt"

	"github.com/q3log/q3log-go/pkg/q3log/event"
)

// LogicKind identifies a derived logic event.
type LogicKind int

const (
	// NewGame opens a match.
	NewGame LogicKind = iota + 1
	// AddPlayer registers a named client.
	AddPlayer
	// RenamePlayer changes the name of a registered client.
	RenamePlayer
	// DeletePlayer removes a disconnecting client.
	DeletePlayer
	// MeanOfDeath reports the cause of one death.
	MeanOfDeath
	// IncFrags credits a killer with one frag.
	IncFrags
	// DecFrags penalizes a victim of the world by one frag.
	DecFrags
	// ReportedScore carries the server's own account of a player's frags.
	ReportedScore
	// GameEndedGracefully closes a match that reached one of its limits.
	GameEndedGracefully
	// GameEndedManually closes a match that was shut down before any limit.
	GameEndedManually
	// EventModelViolation carries a detected breach of the event grammar.
	EventModelViolation
)

var logicKindNames = map[LogicKind]string{
	NewGame:             "NewGame",
	AddPlayer:           "AddPlayer",
	RenamePlayer:        "RenamePlayer",
	DeletePlayer:        "DeletePlayer",
	MeanOfDeath:         "MeanOfDeath",
	IncFrags:            "IncFrags",
	DecFrags:            "DecFrags",
	ReportedScore:       "ReportedScore",
	GameEndedGracefully: "GameEndedGracefully",
	GameEndedManually:   "GameEndedManually",
	EventModelViolation: "EventModelViolation",
}

func (k LogicKind) String() string {
	if name, ok := logicKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("LogicKind(%d)", int(k))
}

// LogicEvent is a fact derived from one raw event. Only the fields relevant
// to Kind are set.
type LogicEvent struct {
	Kind LogicKind

	// SequenceID is the id of the raw event this one was derived from.
	SequenceID uint32

	// ClientID is set for player and frag events.
	ClientID uint32

	// Name is the player name for AddPlayer, DeletePlayer, IncFrags,
	// DecFrags and ReportedScore.
	Name string

	// OldName and NewName are set for RenamePlayer.
	OldName string
	NewName string

	// Reason is the mean of death for MeanOfDeath.
	Reason string

	// Frags is the reported score for ReportedScore.
	Frags int32

	// Violation is set for EventModelViolation.
	Violation *Violation
}

// Composite is what flows between stages: either a raw event not yet
// interpreted (Game) or a derived logic event (Logic). Exactly one of the two
// is non-nil; use GameEvent and Logic to build values.
type Composite struct {
	Game  *event.Event
	Logic *LogicEvent
}

// GameEvent wraps a raw event for pass-through.
func GameEvent(ev event.Event) Composite {
	return Composite{Game: &ev}
}

// Logic wraps a derived event.
func Logic(le LogicEvent) Composite {
	return Composite{Logic: &le}
}

// violation wraps an event-model violation detected at sequence id seq.
func violation(seq uint32, v Violation) Composite {
	return Logic(LogicEvent{Kind: EventModelViolation, SequenceID: seq, Violation: &v})
}

// SequenceID returns the id of the raw event behind c.
func (c Composite) SequenceID() uint32 {
	if c.Logic != nil {
		return c.Logic.SequenceID
	}
	if c.Game != nil {
		return c.Game.SequenceID
	}
	return 0
}

// IsErr reports whether c carries a feed error or an event-model violation.
func (c Composite) IsErr() bool {
	if c.Logic != nil {
		return c.Logic.Kind == EventModelViolation
	}
	return c.Game != nil && c.Game.IsErr()
}

func (c Composite) String() string {
	switch {
	case c.Logic != nil:
		return fmt.Sprintf("logic #%d %s", c.Logic.SequenceID, c.Logic.Kind)
	case c.Game != nil:
		return fmt.Sprintf("game #%d %s", c.Game.SequenceID, c.Game.Type)
	}
	return "empty"
}

// isGame reports whether c is a raw event of type t.
func (c Composite) isGame(t event.Type) bool {
	return c.Game != nil && c.Game.Type == t
}

// isLogic reports whether c is a logic event of kind k.
func (c Composite) isLogic(k LogicKind) bool {
	return c.Logic != nil && c.Logic.Kind == k
}
