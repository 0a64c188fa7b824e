package pipeline

import (
	"fmt"
	"iter"

	"github.com/q3log/q3log-go/pkg/q3log/event"
)

// layout is one of the supported stage chains.
type layout int

const (
	layoutKills layout = iota
	layoutKillsIdentity
	layoutKillsScores
	layoutKillsIdentityScores
	layoutExtended
)

// Stage names reported by Pipeline.Stages.
const (
	StageLifecycle      = "lifecycle"
	StageMeansOfDeath   = "means_of_death"
	StageKills          = "kills"
	StagePlayerIdentity = "player_identity"
	StageReportedScores = "reported_scores"
	StageSummarizer     = "summarizer"
)

var layouts = []struct {
	analyses Analyses
	layout   layout
	stages   []string
}{
	{Baseline, layoutKills,
		[]string{StageLifecycle, StageKills, StageSummarizer}},
	{AnalysisKills | AnalysisPlayerIdentity, layoutKillsIdentity,
		[]string{StageLifecycle, StageKills, StagePlayerIdentity, StageSummarizer}},
	{AnalysisKills | AnalysisReportedScores, layoutKillsScores,
		[]string{StageLifecycle, StageKills, StageReportedScores, StageSummarizer}},
	{AnalysisKills | AnalysisPlayerIdentity | AnalysisReportedScores, layoutKillsIdentityScores,
		[]string{StageLifecycle, StageKills, StagePlayerIdentity, StageReportedScores, StageSummarizer}},
	{Extended, layoutExtended,
		[]string{StageLifecycle, StageMeansOfDeath, StageKills, StagePlayerIdentity, StageReportedScores, StageSummarizer}},
}

// SupportedAnalyses returns the analysis sets Assemble accepts.
func SupportedAnalyses() []Analyses {
	sets := make([]Analyses, len(layouts))
	for i, l := range layouts {
		sets[i] = l.analyses
	}
	return sets
}

// Pipeline is an assembled chain of stages. It holds no per-run state, so
// Run may be called any number of times.
type Pipeline struct {
	cfg    Config
	layout layout
	stages []string
}

// Assemble picks the stage chain for cfg.Analyses. A zero Analyses means
// Baseline. Sets not listed by SupportedAnalyses fail with
// ErrUnsupportedAnalyses.
func Assemble(cfg Config) (*Pipeline, error) {
	if cfg.Analyses == 0 {
		cfg.Analyses = Baseline
	}
	for _, l := range layouts {
		if l.analyses == cfg.Analyses {
			return &Pipeline{cfg: cfg, layout: l.layout, stages: l.stages}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedAnalyses, cfg.Analyses)
}

// Config returns the configuration the pipeline was assembled with.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Stages returns the names of the stages, in execution order.
func (p *Pipeline) Stages() []string {
	out := make([]string, len(p.stages))
	copy(out, p.stages)
	return out
}

// Run lazily processes events. Nothing is read before the returned
// sequence is iterated, and stopping the iteration stops the whole chain.
func (p *Pipeline) Run(events iter.Seq[event.Event]) iter.Seq2[*MatchSummary, error] {
	c := ComposeLifecycle(p.cfg, events)
	switch p.layout {
	case layoutKills:
		c = AnalyzeKills(c)
	case layoutKillsIdentity:
		c = ResolvePlayerIdentity(p.cfg, AnalyzeKills(c))
	case layoutKillsScores:
		c = AnalyzeReportedScores(AnalyzeKills(c))
	case layoutKillsIdentityScores:
		c = AnalyzeReportedScores(ResolvePlayerIdentity(p.cfg, AnalyzeKills(c)))
	case layoutExtended:
		c = AnalyzeReportedScores(ResolvePlayerIdentity(p.cfg, AnalyzeKills(AnalyzeMeansOfDeath(c))))
	}
	return Summarize(p.cfg, c)
}
