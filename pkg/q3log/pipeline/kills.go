package pipeline

import (
	"iter"

	"github.com/q3log/q3log-go/pkg/q3log/event"
)

// AnalyzeKills replaces every Kill with one frag delta: IncFrags for the
// killer, or DecFrags for the victim when the world is the killer.
func AnalyzeKills(in iter.Seq[Composite]) iter.Seq[Composite] {
	return transform(in, func() kills { return kills{} })
}

type kills struct{}

func (kills) step(c Composite, yield func(Composite) bool) bool {
	if !c.isGame(event.Kill) {
		return yield(c)
	}
	ev := c.Game
	if ev.KillerName != event.WorldName {
		return yield(Logic(LogicEvent{
			Kind:       IncFrags,
			SequenceID: ev.SequenceID,
			ClientID:   ev.KillerID,
			Name:       ev.KillerName,
		}))
	}
	return yield(Logic(LogicEvent{
		Kind:       DecFrags,
		SequenceID: ev.SequenceID,
		ClientID:   ev.VictimID,
		Name:       ev.VictimName,
	}))
}
