package pipeline

import (
	"maps"
	"slices"
)

// DisconnectedPlayer is a player that left the match holding a frag entry.
type DisconnectedPlayer struct {
	ID    uint32 `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Frags int    `json:"frags" yaml:"frags"`
}

// MatchSummary is the aggregated result of one match.
//
// The optional parts (MeansOfDeath, ReportedScores, Disconnected) are nil
// until their first entry.
type MatchSummary struct {
	TotalKills     uint32
	Players        map[string]struct{}
	Kills          map[string]int
	MeansOfDeath   map[string]int
	ReportedScores map[string]int
	Disconnected   []DisconnectedPlayer
}

func newMatchSummary() *MatchSummary {
	return &MatchSummary{
		Players: make(map[string]struct{}),
		Kills:   make(map[string]int),
	}
}

// PlayerNames returns the players of the match, sorted.
func (s *MatchSummary) PlayerNames() []string {
	return slices.Sorted(maps.Keys(s.Players))
}

// HasPlayer reports whether name is in the match.
func (s *MatchSummary) HasPlayer(name string) bool {
	_, ok := s.Players[name]
	return ok
}

func (s *MatchSummary) adjustFrags(name string, delta int) {
	s.TotalKills++
	s.Players[name] = struct{}{}
	s.Kills[name] += delta
}

func (s *MatchSummary) rename(oldName, newName string) {
	delete(s.Players, oldName)
	s.Players[newName] = struct{}{}
	if frags, ok := s.Kills[oldName]; ok {
		delete(s.Kills, oldName)
		s.Kills[newName] = frags
	}
}

func (s *MatchSummary) addMeanOfDeath(reason string) {
	if s.MeansOfDeath == nil {
		s.MeansOfDeath = make(map[string]int)
	}
	s.MeansOfDeath[reason]++
}

func (s *MatchSummary) reportScore(name string, frags int) {
	if s.ReportedScores == nil {
		s.ReportedScores = make(map[string]int)
	}
	s.ReportedScores[name] = frags
}
