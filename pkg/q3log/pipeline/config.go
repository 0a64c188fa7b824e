package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Analyses is a set of analyses, combined with bitwise OR.
type Analyses uint8

const (
	// AnalysisMeansOfDeath counts deaths per cause.
	AnalysisMeansOfDeath Analyses = 1 << iota
	// AnalysisKills computes frag deltas. Every supported set includes it.
	AnalysisKills
	// AnalysisPlayerIdentity tracks connects, renames and disconnects and
	// validates the names carried by frag events.
	AnalysisPlayerIdentity
	// AnalysisReportedScores records the scores reported by the server.
	AnalysisReportedScores
)

const (
	// Baseline is the default set: frag counting only.
	Baseline = AnalysisKills
	// Extended enables every analysis.
	Extended = AnalysisMeansOfDeath | AnalysisKills | AnalysisPlayerIdentity | AnalysisReportedScores
)

var analysisNames = []struct {
	a    Analyses
	name string
}{
	{AnalysisMeansOfDeath, "means_of_death"},
	{AnalysisKills, "kills"},
	{AnalysisPlayerIdentity, "player_identity"},
	{AnalysisReportedScores, "reported_scores"},
}

// Has reports whether every analysis of b is in a.
func (a Analyses) Has(b Analyses) bool {
	return a&b == b
}

// String returns the comma separated analysis names, in pipeline order.
func (a Analyses) String() string {
	var names []string
	for _, n := range analysisNames {
		if a.Has(n.a) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// AnalysisNames returns the names accepted by ParseAnalyses.
func AnalysisNames() []string {
	names := make([]string, len(analysisNames))
	for i, n := range analysisNames {
		names[i] = n.name
	}
	return names
}

// ParseAnalyses converts analysis names (case-insensitive) into a set.
// It does not check that the set is supported; Assemble does.
func ParseAnalyses(names []string) (Analyses, error) {
	var set Analyses
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		found := false
		for _, n := range analysisNames {
			if n.name == name {
				set |= n.a
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown analysis %q (valid: %s)", raw, strings.Join(AnalysisNames(), ", "))
		}
	}
	return set, nil
}

// Config is shared read-only by every stage of one run.
type Config struct {
	// LogIssues surfaces feed errors and ignored events as Warn diagnostics.
	// It never changes the produced summaries.
	LogIssues bool

	// StopOnFeedErrors turns in-band feed errors into per-item errors of
	// the Summarizer. When false they are dropped.
	StopOnFeedErrors bool

	// StopOnEventModelViolations enables the name consistency check of the
	// player identity stage.
	StopOnEventModelViolations bool

	// Analyses selects the optional stages. Zero means Baseline.
	Analyses Analyses

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}
