package pipeline

import (
	"iter"

	"github.com/q3log/q3log-go/pkg/q3log/event"
)

// AnalyzeReportedScores turns Score events into ReportedScore events.
func AnalyzeReportedScores(in iter.Seq[Composite]) iter.Seq[Composite] {
	return transform(in, func() reportedScores { return reportedScores{} })
}

type reportedScores struct{}

func (reportedScores) step(c Composite, yield func(Composite) bool) bool {
	if !c.isGame(event.Score) {
		return yield(c)
	}
	return yield(Logic(LogicEvent{
		Kind:       ReportedScore,
		SequenceID: c.Game.SequenceID,
		ClientID:   c.Game.ClientID,
		Name:       c.Game.Name,
		Frags:      c.Game.Frags,
	}))
}
