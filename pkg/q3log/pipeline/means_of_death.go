package pipeline

import (
	"iter"

	"github.com/q3log/q3log-go/pkg/q3log/event"
)

// AnalyzeMeansOfDeath emits a MeanOfDeath event in front of every Kill and
// forwards the Kill itself, so it must run before AnalyzeKills.
func AnalyzeMeansOfDeath(in iter.Seq[Composite]) iter.Seq[Composite] {
	return transform(in, func() meansOfDeath { return meansOfDeath{} })
}

type meansOfDeath struct{}

func (meansOfDeath) step(c Composite, yield func(Composite) bool) bool {
	if c.isGame(event.Kill) {
		mod := Logic(LogicEvent{
			Kind:       MeanOfDeath,
			SequenceID: c.Game.SequenceID,
			Reason:     c.Game.ReasonName,
		})
		if !yield(mod) {
			return false
		}
	}
	return yield(c)
}
