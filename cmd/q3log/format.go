package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/q3log/q3log-go/pkg/q3log/pipeline"
)

// gameReport is the rendered form of one match summary.
type gameReport struct {
	TotalKills     uint32                        `json:"total_kills" yaml:"total_kills"`
	Players        []string                      `json:"players" yaml:"players"`
	Kills          map[string]int                `json:"kills" yaml:"kills"`
	KillsByMeans   map[string]int                `json:"kills_by_means,omitempty" yaml:"kills_by_means,omitempty"`
	ReportedScores map[string]int                `json:"game_reported_scores,omitempty" yaml:"game_reported_scores,omitempty"`
	Disconnected   []pipeline.DisconnectedPlayer `json:"disconnected_players,omitempty" yaml:"disconnected_players,omitempty"`
}

// numberedReport carries the game number for formats without a keyed
// document.
type numberedReport struct {
	Game       int `json:"game" yaml:"game"`
	gameReport `yaml:",inline"`
}

func newGameReport(s *pipeline.MatchSummary) gameReport {
	r := gameReport{
		TotalKills:     s.TotalKills,
		Players:        s.PlayerNames(),
		Kills:          s.Kills,
		KillsByMeans:   s.MeansOfDeath,
		ReportedScores: s.ReportedScores,
		Disconnected:   s.Disconnected,
	}
	if r.Players == nil {
		r.Players = []string{}
	}
	if r.Kills == nil {
		r.Kills = map[string]int{}
	}
	return r
}

// renderer writes summaries as they arrive. Begin and End frame the whole
// output.
type renderer interface {
	Begin() error
	Game(n int, s *pipeline.MatchSummary) error
	End() error
}

func newRenderer(format string, out io.Writer) (renderer, error) {
	switch format {
	case "json":
		return &jsonRenderer{out: out}, nil
	case "jsonl":
		return &jsonlRenderer{out: out}, nil
	case "yaml":
		return &yamlRenderer{enc: yaml.NewEncoder(out)}, nil
	case "pretty":
		return &prettyRenderer{out: out}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// jsonRenderer writes {"game_1": {...}, "game_2": {...}} one game at a time.
type jsonRenderer struct {
	out   io.Writer
	games int
}

func (r *jsonRenderer) Begin() error {
	_, err := io.WriteString(r.out, "{")
	return err
}

func (r *jsonRenderer) Game(n int, s *pipeline.MatchSummary) error {
	data, err := json.MarshalIndent(newGameReport(s), "  ", "  ")
	if err != nil {
		return err
	}
	sep := ","
	if r.games == 0 {
		sep = ""
	}
	r.games++
	_, err = fmt.Fprintf(r.out, "%s\n  \"game_%d\": %s", sep, n, data)
	return err
}

func (r *jsonRenderer) End() error {
	end := "\n}\n"
	if r.games == 0 {
		end = "}\n"
	}
	_, err := io.WriteString(r.out, end)
	return err
}

// jsonlRenderer writes one JSON object per line.
type jsonlRenderer struct {
	out io.Writer
}

func (r *jsonlRenderer) Begin() error { return nil }
func (r *jsonlRenderer) End() error   { return nil }

func (r *jsonlRenderer) Game(n int, s *pipeline.MatchSummary) error {
	data, err := json.Marshal(numberedReport{Game: n, gameReport: newGameReport(s)})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.out, string(data))
	return err
}

// yamlRenderer writes one YAML document per game.
type yamlRenderer struct {
	enc *yaml.Encoder
}

func (r *yamlRenderer) Begin() error { return nil }
func (r *yamlRenderer) End() error   { return r.enc.Close() }

func (r *yamlRenderer) Game(n int, s *pipeline.MatchSummary) error {
	return r.enc.Encode(numberedReport{Game: n, gameReport: newGameReport(s)})
}

// prettyRenderer writes a human readable block per game.
type prettyRenderer struct {
	out io.Writer
}

func (r *prettyRenderer) Begin() error { return nil }
func (r *prettyRenderer) End() error   { return nil }

func (r *prettyRenderer) Game(n int, s *pipeline.MatchSummary) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Game %d: %d kills\n", n, s.TotalKills)
	fmt.Fprintf(&sb, "  players: %s\n", strings.Join(s.PlayerNames(), ", "))

	writeRanking(&sb, "kills", s.Kills)
	writeRanking(&sb, "kills by means", s.MeansOfDeath)
	writeRanking(&sb, "reported scores", s.ReportedScores)
	if len(s.Disconnected) > 0 {
		sb.WriteString("  disconnected:\n")
		for _, d := range s.Disconnected {
			fmt.Fprintf(&sb, "    #%d %s %+d\n", d.ID, d.Name, d.Frags)
		}
	}

	_, err := io.WriteString(r.out, sb.String())
	return err
}

// writeRanking lists m by value, highest first, ties by name.
func writeRanking(sb *strings.Builder, title string, m map[string]int) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	width := 0
	for name := range m {
		names = append(names, name)
		width = max(width, len(name))
	}
	slices.SortFunc(names, func(a, b string) int {
		if m[a] != m[b] {
			return m[b] - m[a]
		}
		return strings.Compare(a, b)
	})

	fmt.Fprintf(sb, "  %s:\n", title)
	for _, name := range names {
		fmt.Fprintf(sb, "    %-*s %d\n", width, name, m[name])
	}
}
