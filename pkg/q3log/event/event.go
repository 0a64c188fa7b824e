// Package event defines the raw Event type produced by Quake 3 server log parsing.
//
// This package is separated from the main q3log package to avoid import cycles
// between pkg/q3log, pkg/q3log/pipeline and internal/parser.
package event

import (
	"sort"
	"strings"
)

// Type represents the kind of Quake 3 server event.
type Type string

const (
	// InitGame starts a new match.
	InitGame Type = "InitGame"

	// ClientConnect announces a client slot being taken.
	ClientConnect Type = "ClientConnect"

	// ClientUserinfoChanged carries the (possibly new) name of a connected client.
	ClientUserinfoChanged Type = "ClientUserinfoChanged"

	// ClientDisconnect announces a client leaving the server.
	ClientDisconnect Type = "ClientDisconnect"

	// Kill reports an elimination, environmental deaths included.
	Kill Type = "Kill"

	// Exit marks a match reaching one of its limits (frag, time, capture).
	Exit Type = "Exit"

	// Score is the server's own account of a player's frags at match end.
	Score Type = "Score"

	// ShutdownGame ends the current match.
	ShutdownGame Type = "ShutdownGame"

	// Error is an in-band feed failure (I/O or parsing).
	Error Type = "Error"
)

// WorldName is the killer name the server uses for environmental deaths.
const WorldName = "<world>"

// allTypes is the canonical list of all event types.
var allTypes = []Type{
	InitGame, ClientConnect, ClientUserinfoChanged, ClientDisconnect,
	Kill, Exit, Score, ShutdownGame, Error,
}

// TypeNames returns a sorted list of all valid event type names.
func TypeNames() []string {
	names := make([]string, len(allTypes))
	for i, t := range allTypes {
		names[i] = string(t)
	}
	sort.Strings(names)
	return names
}

var typeByName = func() map[string]Type {
	m := make(map[string]Type, len(allTypes))
	for _, t := range allTypes {
		m[strings.ToLower(string(t))] = t
	}
	return m
}()

// ParseType converts a string to Type if valid.
// It is case-insensitive and trims leading/trailing whitespace.
func ParseType(name string) (Type, bool) {
	t, ok := typeByName[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Event is one raw server event. Only the fields relevant to Type are set.
type Event struct {
	// Type is the event type.
	Type Type `json:"type"`

	// SequenceID is assigned by the feed: 1-based and strictly increasing
	// over every item of one feed, Error events included.
	SequenceID uint32 `json:"sequence_id"`

	// Line is the source line number the event was parsed from (0 if unknown).
	Line int `json:"line,omitempty"`

	// ClientID is the client slot for ClientConnect, ClientUserinfoChanged,
	// ClientDisconnect and Score.
	ClientID uint32 `json:"client_id,omitempty"`

	// Name is the player name for ClientUserinfoChanged and Score.
	Name string `json:"name,omitempty"`

	KillerID   uint32 `json:"killer_id,omitempty"`
	VictimID   uint32 `json:"victim_id,omitempty"`
	ReasonID   uint32 `json:"reason_id,omitempty"`
	KillerName string `json:"killer_name,omitempty"`
	VictimName string `json:"victim_name,omitempty"`
	ReasonName string `json:"reason_name,omitempty"`

	// Frags is the reported score of a Score event. May be negative.
	Frags int32 `json:"frags,omitempty"`

	// Message describes an Error event.
	Message string `json:"message,omitempty"`

	// RawLine is the original log line (only included if requested).
	RawLine string `json:"raw_line,omitempty"`
}

// IsErr reports whether the event is an in-band feed failure.
func (e Event) IsErr() bool {
	return e.Type == Error
}
