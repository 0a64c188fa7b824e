// Package parser provides Quake 3 server log line parsing functionality.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/q3log/q3log-go/pkg/q3log/event"
)

// Sentinel errors for malformed lines.
var (
	ErrUnrecognizedLine = errors.New("unrecognized line format")
	ErrUnknownEvent     = errors.New("unknown event name")
)

// FieldError reports an event whose data could not be decoded.
type FieldError struct {
	Event  string
	Field  string
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s: %s", e.Event, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s %q: %s", e.Event, e.Field, e.Value, e.Reason)
}

// Parse parses a Quake 3 server log line into an Event.
// SequenceID and Line are left for the caller to assign.
//
// Returns:
//   - (*Event, nil): Successfully parsed
//   - (nil, nil): Blank line, comment, or an event the summaries ignore
//   - (nil, error): Malformed line or unknown event name
func Parse(line string) (*event.Event, error) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}

	match := linePattern.FindStringSubmatch(line)
	if match == nil {
		return nil, ErrUnrecognizedLine
	}
	rest := match[2]

	// "  0:00 ------------------------------------------------------------"
	if strings.HasPrefix(rest, "-") {
		return nil, nil
	}

	name, data, ok := strings.Cut(rest, ":")
	if !ok {
		return nil, ErrUnrecognizedLine
	}
	data = strings.TrimLeft(data, " ")

	switch name {
	case "InitGame":
		return &event.Event{Type: event.InitGame}, nil
	case "ClientConnect":
		id, err := parseID(name, "client id", data)
		if err != nil {
			return nil, err
		}
		return &event.Event{Type: event.ClientConnect, ClientID: id}, nil
	case "ClientUserinfoChanged":
		return parseUserinfo(data)
	case "ClientDisconnect":
		id, err := parseID(name, "client id", data)
		if err != nil {
			return nil, err
		}
		return &event.Event{Type: event.ClientDisconnect, ClientID: id}, nil
	case "Kill":
		return parseKill(data)
	case "Exit":
		return &event.Event{Type: event.Exit}, nil
	case "score":
		return parseScore(data)
	case "ShutdownGame":
		return &event.Event{Type: event.ShutdownGame}, nil
	case "red":
		if !redBluePattern.MatchString(data) {
			return nil, &FieldError{Event: name, Field: "data", Value: data, Reason: "expected '<red>  blue:<blue>'"}
		}
		return nil, nil
	}

	if ignoredEvents[name] {
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
}

func parseUserinfo(data string) (*event.Event, error) {
	const name = "ClientUserinfoChanged"
	match := userinfoPattern.FindStringSubmatch(data)
	if match == nil {
		return nil, &FieldError{Event: name, Field: "data", Value: data, Reason: `expected '<client id> key1\value1\key2\value2...'`}
	}
	id, err := parseID(name, "client id", match[1])
	if err != nil {
		return nil, err
	}
	player, ok := infoValue(match[2], "n")
	if !ok {
		return nil, &FieldError{Event: name, Field: "n", Reason: "key is absent"}
	}
	return &event.Event{Type: event.ClientUserinfoChanged, ClientID: id, Name: player}, nil
}

// infoValue looks key up in a backslash separated "k1\v1\k2\v2" string.
func infoValue(info, key string) (string, bool) {
	fields := strings.Split(info, `\`)
	for i := 0; i+1 < len(fields); i += 2 {
		if fields[i] == key {
			return fields[i+1], true
		}
	}
	return "", false
}

func parseKill(data string) (*event.Event, error) {
	const name = "Kill"
	match := killPattern.FindStringSubmatch(data)
	if match == nil {
		return nil, &FieldError{Event: name, Field: "data", Value: data, Reason: "expected '<killer id> <victim id> <reason id>: <killer> killed <victim> by <reason>'"}
	}
	killer, err := parseID(name, "killer id", match[1])
	if err != nil {
		return nil, err
	}
	victim, err := parseID(name, "victim id", match[2])
	if err != nil {
		return nil, err
	}
	reason, err := parseID(name, "reason id", match[3])
	if err != nil {
		return nil, err
	}
	return &event.Event{
		Type:       event.Kill,
		KillerID:   killer,
		VictimID:   victim,
		ReasonID:   reason,
		KillerName: match[4],
		VictimName: match[5],
		ReasonName: match[6],
	}, nil
}

func parseScore(data string) (*event.Event, error) {
	const name = "score"
	match := scorePattern.FindStringSubmatch(data)
	if match == nil {
		return nil, &FieldError{Event: name, Field: "data", Value: data, Reason: "expected '<frags>  ping: <ping>  client: <id> <name>'"}
	}
	frags, err := strconv.ParseInt(match[1], 10, 32)
	if err != nil {
		return nil, &FieldError{Event: name, Field: "frags", Value: match[1], Reason: err.Error()}
	}
	id, err := parseID(name, "client id", match[2])
	if err != nil {
		return nil, err
	}
	return &event.Event{Type: event.Score, Frags: int32(frags), ClientID: id, Name: match[3]}, nil
}

func parseID(eventName, field, value string) (uint32, error) {
	value = strings.TrimSpace(value)
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, &FieldError{Event: eventName, Field: field, Value: value, Reason: "not an unsigned number"}
	}
	return uint32(n), nil
}
