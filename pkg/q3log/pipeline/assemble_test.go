package pipeline_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/q3log/q3log-go/pkg/q3log/event"
	"github.com/q3log/q3log-go/pkg/q3log/pipeline"
)

func TestAssemble_Stages(t *testing.T) {
	tests := []struct {
		analyses pipeline.Analyses
		want     []string
	}{
		{pipeline.Baseline, []string{"lifecycle", "kills", "summarizer"}},
		{pipeline.AnalysisKills | pipeline.AnalysisPlayerIdentity, []string{"lifecycle", "kills", "player_identity", "summarizer"}},
		{pipeline.AnalysisKills | pipeline.AnalysisReportedScores, []string{"lifecycle", "kills", "reported_scores", "summarizer"}},
		{pipeline.AnalysisKills | pipeline.AnalysisPlayerIdentity | pipeline.AnalysisReportedScores, []string{"lifecycle", "kills", "player_identity", "reported_scores", "summarizer"}},
		{pipeline.Extended, []string{"lifecycle", "means_of_death", "kills", "player_identity", "reported_scores", "summarizer"}},
	}

	for _, tt := range tests {
		t.Run(tt.analyses.String(), func(t *testing.T) {
			p, err := pipeline.Assemble(pipeline.Config{Analyses: tt.analyses})
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Stages())

			again, err := pipeline.Assemble(pipeline.Config{Analyses: tt.analyses})
			require.NoError(t, err)
			assert.Equal(t, p.Stages(), again.Stages())
		})
	}
}

func TestAssemble_ZeroIsBaseline(t *testing.T) {
	p, err := pipeline.Assemble(pipeline.Config{})
	require.NoError(t, err)
	assert.Equal(t, pipeline.Baseline, p.Config().Analyses)
}

func TestAssemble_Unsupported(t *testing.T) {
	tests := []pipeline.Analyses{
		pipeline.AnalysisMeansOfDeath,
		pipeline.AnalysisPlayerIdentity,
		pipeline.AnalysisMeansOfDeath | pipeline.AnalysisKills,
		pipeline.AnalysisMeansOfDeath | pipeline.AnalysisKills | pipeline.AnalysisPlayerIdentity,
		pipeline.AnalysisPlayerIdentity | pipeline.AnalysisReportedScores,
	}
	for _, analyses := range tests {
		t.Run(analyses.String(), func(t *testing.T) {
			p, err := pipeline.Assemble(pipeline.Config{Analyses: analyses})
			assert.Nil(t, p)
			assert.ErrorIs(t, err, pipeline.ErrUnsupportedAnalyses)
		})
	}
}

func TestSupportedAnalyses(t *testing.T) {
	sets := pipeline.SupportedAnalyses()
	assert.Len(t, sets, 5)
	for _, set := range sets {
		assert.True(t, set.Has(pipeline.AnalysisKills), set.String())
	}
}

func TestParseAnalyses(t *testing.T) {
	got, err := pipeline.ParseAnalyses([]string{"Kills", " player_identity ", ""})
	require.NoError(t, err)
	assert.Equal(t, pipeline.AnalysisKills|pipeline.AnalysisPlayerIdentity, got)
	assert.Equal(t, "kills,player_identity", got.String())

	_, err = pipeline.ParseAnalyses([]string{"headshots"})
	assert.ErrorContains(t, err, "headshots")

	assert.Equal(t, "none", pipeline.Analyses(0).String())
}

func TestRun_TwoPlayersTrade(t *testing.T) {
	got := run(pipeline.Config{},
		initGame(),
		kill(1, 2, "A", "B", "MOD_RAILGUN"),
		kill(2, 1, "B", "A", "MOD_RAILGUN"),
		shutdownGame(),
	)

	require.Len(t, got, 1)
	require.NoError(t, got[0].err)
	s := got[0].summary
	assert.Equal(t, uint32(2), s.TotalKills)
	assert.Equal(t, []string{"A", "B"}, s.PlayerNames())
	assert.Equal(t, map[string]int{"A": 1, "B": 1}, s.Kills)
}

func TestRun_WorldKillsCostFrags(t *testing.T) {
	got := run(pipeline.Config{},
		initGame(),
		worldKill(1, "A"),
		worldKill(1, "A"),
		shutdownGame(),
	)

	require.Len(t, got, 1)
	s := got[0].summary
	assert.Equal(t, uint32(2), s.TotalKills)
	assert.Equal(t, map[string]int{"A": -2}, s.Kills)
	assert.NotContains(t, s.Kills, event.WorldName)
	assert.NotContains(t, s.Players, event.WorldName)
}

func TestRun_ConnectAndLeaveWithoutKills(t *testing.T) {
	got := run(pipeline.Config{Analyses: pipeline.AnalysisKills | pipeline.AnalysisPlayerIdentity},
		initGame(),
		connect(1),
		userinfo(1, "Bob"),
		disconnect(1),
		shutdownGame(),
	)

	require.Len(t, got, 1)
	require.NoError(t, got[0].err)
	s := got[0].summary
	assert.Empty(t, s.Players)
	assert.Nil(t, s.Disconnected)
	assert.Zero(t, s.TotalKills)
}

func TestRun_DoubleInitKeepsFirstMatch(t *testing.T) {
	got := run(pipeline.Config{},
		initGame(),
		initGame(),
		shutdownGame(),
	)

	require.Len(t, got, 2)

	require.ErrorIs(t, got[0].err, pipeline.ErrEventModelViolation)
	var v pipeline.Violation
	require.ErrorAs(t, got[0].err, &v)
	assert.Equal(t, pipeline.DoubleInit, v.Kind)
	var evErr *pipeline.EventError
	require.ErrorAs(t, got[0].err, &evErr)
	assert.Equal(t, uint32(2), evErr.SequenceID)

	require.NoError(t, got[1].err)
	assert.NotNil(t, got[1].summary)
}

func TestRun_MeansOfDeathCounted(t *testing.T) {
	got := run(pipeline.Config{Analyses: pipeline.Extended},
		initGame(),
		kill(1, 2, "A", "B", "R1"),
		kill(2, 1, "B", "A", "R2"),
		shutdownGame(),
	)

	require.Len(t, got, 1)
	require.NoError(t, got[0].err)
	s := got[0].summary
	assert.Equal(t, map[string]int{"R1": 1, "R2": 1}, s.MeansOfDeath)
	assert.Equal(t, uint32(2), s.TotalKills)
	assert.Equal(t, map[string]int{"A": 1, "B": 1}, s.Kills)
}

func TestRun_FragSymmetry(t *testing.T) {
	names := []string{"A", "B", "C", "D"}
	evs := []event.Event{initGame()}
	for i := range 40 {
		k, v := i%len(names), (i*7+1)%len(names)
		evs = append(evs, kill(uint32(k), uint32(v), names[k], names[v], "MOD_SHOTGUN"))
	}
	evs = append(evs, shutdownGame())

	got := run(pipeline.Config{}, evs...)
	require.Len(t, got, 1)
	s := got[0].summary

	sum := 0
	for _, frags := range s.Kills {
		sum += frags
	}
	assert.Equal(t, int(s.TotalKills), sum)
	assert.Equal(t, uint32(40), s.TotalKills)
}

func TestRun_ReportedScores(t *testing.T) {
	got := run(pipeline.Config{Analyses: pipeline.AnalysisKills | pipeline.AnalysisReportedScores},
		initGame(),
		kill(1, 2, "A", "B", "MOD_RAILGUN"),
		exitGame(),
		score(1, "A", 1),
		score(2, "B", 0),
		shutdownGame(),
	)

	require.Len(t, got, 1)
	assert.Equal(t, map[string]int{"A": 1, "B": 0}, got[0].summary.ReportedScores)
}

func TestRun_ScoresIgnoredWithoutAnalysis(t *testing.T) {
	got := run(pipeline.Config{}, initGame(), score(1, "A", 3), shutdownGame())

	require.Len(t, got, 1)
	assert.Nil(t, got[0].summary.ReportedScores)
}

func TestRun_MultipleGames(t *testing.T) {
	got := run(pipeline.Config{Analyses: pipeline.Extended},
		initGame(),
		connect(1), userinfo(1, "A"),
		connect(2), userinfo(2, "B"),
		kill(1, 2, "A", "B", "MOD_RAILGUN"),
		userinfo(1, "A2"),
		kill(1, 2, "A2", "B", "MOD_RAILGUN"),
		disconnect(1),
		exitGame(),
		shutdownGame(),
		initGame(),
		connect(1), userinfo(1, "C"),
		worldKill(1, "C"),
		shutdownGame(),
	)

	require.Len(t, got, 2)
	for i, r := range got {
		require.NoError(t, r.err, fmt.Sprintf("game %d", i+1))
	}

	first := got[0].summary
	assert.Equal(t, []string{"B"}, first.PlayerNames())
	assert.Empty(t, first.Kills)
	assert.Equal(t, uint32(2), first.TotalKills)
	assert.Equal(t, []pipeline.DisconnectedPlayer{{ID: 1, Name: "A2", Frags: 2}}, first.Disconnected)
	assert.Equal(t, map[string]int{"MOD_RAILGUN": 2}, first.MeansOfDeath)

	second := got[1].summary
	assert.Equal(t, []string{"C"}, second.PlayerNames())
	assert.Equal(t, map[string]int{"C": -1}, second.Kills)
}

func TestRun_PedanticNameCheck(t *testing.T) {
	cfg := pipeline.Config{
		Analyses:                   pipeline.AnalysisKills | pipeline.AnalysisPlayerIdentity,
		StopOnEventModelViolations: true,
	}
	got := run(cfg,
		initGame(),
		connect(1), userinfo(1, "A"),
		kill(1, 1, "Impostor", "A", "MOD_ROCKET_SPLASH"),
		shutdownGame(),
	)

	require.Len(t, got, 2)
	var v pipeline.Violation
	require.ErrorAs(t, got[0].err, &v)
	assert.Equal(t, pipeline.DiscrepantPlayerName, v.Kind)
	assert.Equal(t, "A", v.LocalName)
	assert.Equal(t, "Impostor", v.GameName)

	require.NoError(t, got[1].err)
	assert.Zero(t, got[1].summary.TotalKills)
}

func TestRun_IsLazy(t *testing.T) {
	pulled := 0
	events := func(yield func(event.Event) bool) {
		for i, ev := range []event.Event{initGame(), shutdownGame(), initGame(), shutdownGame()} {
			pulled++
			ev.SequenceID = uint32(i + 1)
			if !yield(ev) {
				return
			}
		}
	}

	p, err := pipeline.Assemble(pipeline.Config{Analyses: pipeline.Extended})
	require.NoError(t, err)

	seq := p.Run(events)
	assert.Zero(t, pulled)

	for range seq {
		break
	}
	assert.Equal(t, 2, pulled)
}

func TestRun_LogIssuesDoesNotChangeResults(t *testing.T) {
	evs := func() []event.Event {
		return []event.Event{
			feedError("games.log:1: bad line"),
			initGame(),
			connect(1),
			userinfo(1, "A"),
			kill(1, 2, "A", "B", "MOD_RAILGUN"),
			feedError("games.log:5: bad line"),
			initGame(),
			shutdownGame(),
			worldKill(1, "A"),
			initGame(),
			score(1, "A", 3),
			exitGame(),
			shutdownGame(),
		}
	}

	for _, analyses := range pipeline.SupportedAnalyses() {
		t.Run(analyses.String(), func(t *testing.T) {
			quietLogger, quiet := bufLogger()
			loudLogger, loud := bufLogger()
			off := run(pipeline.Config{Analyses: analyses, Logger: quietLogger}, evs()...)
			on := run(pipeline.Config{Analyses: analyses, LogIssues: true, Logger: loudLogger}, evs()...)

			assert.Equal(t, off, on)
			assert.Empty(t, quiet.String())
			assert.Contains(t, loud.String(), `msg="feed error"`)
		})
	}
}
