package pipeline

import (
	"iter"

	"github.com/q3log/q3log-go/pkg/q3log/event"
)

// Placeholder names used when the identity table has no name to offer.
const (
	// UnnamedPlayer stands for a client that connected but never sent its
	// userinfo.
	UnnamedPlayer = "<unnamed>"
	// UnknownPlayer stands for a client id absent from the identity table.
	UnknownPlayer = "<unknown>"
)

// ResolvePlayerIdentity translates connect, userinfo and disconnect events
// into AddPlayer, RenamePlayer and DeletePlayer. When
// cfg.StopOnEventModelViolations is set it also checks every IncFrags and
// DecFrags against the names it knows, replacing mismatches with a
// DiscrepantPlayerName violation.
func ResolvePlayerIdentity(cfg Config, in iter.Seq[Composite]) iter.Seq[Composite] {
	return transform(in, func() *identity {
		return &identity{
			validate: cfg.StopOnEventModelViolations,
			players:  make(map[uint32]slot),
		}
	})
}

// slot is a connected client. named is false until the first userinfo.
type slot struct {
	name  string
	named bool
}

type identity struct {
	validate bool
	players  map[uint32]slot
}

func (r *identity) step(c Composite, yield func(Composite) bool) bool {
	if c.Logic != nil {
		return yield(r.checkLogic(*c.Logic))
	}
	if c.Game == nil {
		return yield(c)
	}

	ev := c.Game
	seq := ev.SequenceID
	switch ev.Type {
	case event.ClientConnect:
		if _, ok := r.players[ev.ClientID]; ok {
			return yield(violation(seq, Violation{Kind: DoubleConnect}))
		}
		r.players[ev.ClientID] = slot{}
		return true

	case event.ClientUserinfoChanged:
		prev, ok := r.players[ev.ClientID]
		if !ok {
			return yield(violation(seq, Violation{Kind: ClientNotConnected, ClientID: ev.ClientID, Name: ev.Name}))
		}
		r.players[ev.ClientID] = slot{name: ev.Name, named: true}
		if prev.named {
			return yield(Logic(LogicEvent{
				Kind:       RenamePlayer,
				SequenceID: seq,
				ClientID:   ev.ClientID,
				OldName:    prev.name,
				NewName:    ev.Name,
			}))
		}
		return yield(Logic(LogicEvent{Kind: AddPlayer, SequenceID: seq, ClientID: ev.ClientID, Name: ev.Name}))

	case event.ClientDisconnect:
		prev, ok := r.players[ev.ClientID]
		if !ok {
			return yield(violation(seq, Violation{Kind: ClientNotConnected, ClientID: ev.ClientID, Name: UnknownPlayer}))
		}
		delete(r.players, ev.ClientID)
		return yield(Logic(LogicEvent{Kind: DeletePlayer, SequenceID: seq, ClientID: ev.ClientID, Name: prev.display()}))
	}
	return yield(c)
}

func (r *identity) checkLogic(le LogicEvent) Composite {
	switch le.Kind {
	case NewGame:
		clear(r.players)
	case IncFrags, DecFrags:
		if !r.validate {
			break
		}
		local, ok := r.players[le.ClientID]
		if ok && local.named && local.name == le.Name {
			break
		}
		localName := UnknownPlayer
		if ok {
			localName = local.display()
		}
		return violation(le.SequenceID, Violation{
			Kind:      DiscrepantPlayerName,
			ClientID:  le.ClientID,
			LocalName: localName,
			GameName:  le.Name,
		})
	}
	return Logic(le)
}

func (s slot) display() string {
	if !s.named {
		return UnnamedPlayer
	}
	return s.name
}
