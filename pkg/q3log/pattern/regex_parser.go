package pattern

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/q3log/q3log-go/pkg/q3log"
	"github.com/q3log/q3log-go/pkg/q3log/event"
)

// RegexParser is a q3log.Parser driven by a PatternFile.
//
// Every pattern is tried on every line, in file order; each match yields
// one event (none for ignore patterns). A line matched only by ignore
// patterns is reported as matched with no events.
//
// RegexParser is safe for concurrent use.
type RegexParser struct {
	patterns []*compiledPattern
}

type compiledPattern struct {
	id        string
	eventType event.Type
	ignore    bool
	regex     *regexp.Regexp
	// groups maps submatch index to group name, for named groups only
	groups map[int]string
}

// NewRegexParser compiles the patterns of pf. Invalid regexes and unknown
// capture group names are reported as *PatternError.
func NewRegexParser(pf *PatternFile) (*RegexParser, error) {
	if pf == nil {
		return nil, fmt.Errorf("pattern file is nil")
	}

	known := CaptureGroups()
	patterns := make([]*compiledPattern, 0, len(pf.Patterns))
	for i, p := range pf.Patterns {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, &PatternError{
				Index:   i,
				ID:      p.ID,
				Field:   "regex",
				Message: fmt.Sprintf("invalid regular expression: %v", err),
				Cause:   err,
			}
		}

		groups := make(map[int]string)
		for j, name := range re.SubexpNames() {
			if j == 0 || name == "" {
				continue
			}
			if !slices.Contains(known, name) {
				return nil, &PatternError{
					Index:   i,
					ID:      p.ID,
					Field:   "regex",
					Message: fmt.Sprintf("unknown capture group %q (valid: %v)", name, known),
				}
			}
			groups[j] = name
		}

		cp := &compiledPattern{id: p.ID, ignore: p.Ignore, regex: re, groups: groups}
		if !p.Ignore {
			cp.eventType, _ = event.ParseType(p.EventType)
		}
		patterns = append(patterns, cp)
	}
	return &RegexParser{patterns: patterns}, nil
}

// NewRegexParserFromFile loads a pattern file and compiles it.
func NewRegexParserFromFile(path string) (*RegexParser, error) {
	pf, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewRegexParser(pf)
}

// ParseLine implements q3log.Parser.
func (p *RegexParser) ParseLine(_ context.Context, line string) (q3log.ParseResult, error) {
	var res q3log.ParseResult
	for _, cp := range p.patterns {
		matches := cp.regex.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		res.Matched = true
		if cp.ignore {
			continue
		}

		ev := event.Event{Type: cp.eventType}
		for idx, group := range cp.groups {
			if err := assign(&ev, group, matches[idx]); err != nil {
				return q3log.ParseResult{}, &CaptureError{PatternID: cp.id, Group: group, Value: matches[idx], Err: err}
			}
		}
		res.Events = append(res.Events, ev)
	}
	return res, nil
}

// assign stores a captured value in the event field of group.
func assign(ev *event.Event, group, value string) error {
	switch group {
	case GroupName:
		ev.Name = value
	case GroupKillerName:
		ev.KillerName = value
	case GroupVictimName:
		ev.VictimName = value
	case GroupReasonName:
		ev.ReasonName = value
	case GroupMessage:
		ev.Message = value
	case GroupFrags:
		n, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return err
		}
		ev.Frags = int32(n)
	default:
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		id := uint32(n)
		switch group {
		case GroupClientID:
			ev.ClientID = id
		case GroupKillerID:
			ev.KillerID = id
		case GroupVictimID:
			ev.VictimID = id
		case GroupReasonID:
			ev.ReasonID = id
		}
	}
	return nil
}

var _ q3log.Parser = (*RegexParser)(nil)
