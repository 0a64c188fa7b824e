// Package pattern lets users teach the feed the log lines of modded Quake 3
// servers. A YAML file lists regular expressions, each mapped onto one of
// the raw event types; named capture groups fill the event fields.
package pattern

// PatternFile is the structure of a YAML pattern file.
//
// Example YAML file:
//
//	version: 1
//	patterns:
//	  - id: osp_kill
//	    event_type: Kill
//	    regex: '^\s*\d+:\d{2} Frag: (?P<killer_id>\d+) (?P<victim_id>\d+) (?P<reason_id>\d+): (?P<killer_name>.*?) fragged (?P<victim_name>.*) with (?P<reason_name>\S+)$'
//	  - id: warmup
//	    ignore: true
//	    regex: '^\s*\d+:\d{2} Warmup:'
type PatternFile struct {
	// Version is the file format version. Only version 1 is supported.
	Version int `yaml:"version"`

	// Patterns is the list of pattern definitions.
	Patterns []Pattern `yaml:"patterns"`
}

// Pattern is a single line pattern.
type Pattern struct {
	// ID identifies the pattern in error messages. IDs are unique within a
	// file.
	ID string `yaml:"id"`

	// EventType is the raw event type produced on match, one of
	// event.TypeNames (case-insensitive). Required unless Ignore is set.
	EventType string `yaml:"event_type"`

	// Regex is matched against whole log lines. Named groups must be one of
	// CaptureGroups.
	Regex string `yaml:"regex"`

	// Ignore recognises the line without producing an event.
	Ignore bool `yaml:"ignore"`
}

// Capture group names and the event fields they fill.
const (
	GroupClientID   = "client_id"
	GroupName       = "name"
	GroupKillerID   = "killer_id"
	GroupVictimID   = "victim_id"
	GroupReasonID   = "reason_id"
	GroupKillerName = "killer_name"
	GroupVictimName = "victim_name"
	GroupReasonName = "reason_name"
	GroupFrags      = "frags"
	GroupMessage    = "message"
)

// CaptureGroups returns the named groups a pattern may use.
func CaptureGroups() []string {
	return []string{
		GroupClientID, GroupName,
		GroupKillerID, GroupVictimID, GroupReasonID,
		GroupKillerName, GroupVictimName, GroupReasonName,
		GroupFrags, GroupMessage,
	}
}
