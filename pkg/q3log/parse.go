package q3log

import "github.com/q3log/q3log-go/internal/parser"

// ParseLine parses a single Quake 3 server log line.
//
// Return values:
//   - (*Event, nil): the line is an event
//   - (nil, nil): the line is blank, a separator, or an event without
//     summary value (ClientBegin, Item, say, team scores)
//   - (nil, error): the line is malformed
//
// SequenceID and Line are left zero; feeds assign them.
//
// Example:
//
//	ev, err := q3log.ParseLine(`  1:08 Kill: 3 2 6: Isgalamido killed Mocinha by MOD_ROCKET`)
//	if err != nil {
//	    log.Printf("parse error: %v", err)
//	} else if ev != nil {
//	    fmt.Printf("%s fragged %s\n", ev.KillerName, ev.VictimName)
//	}
func ParseLine(line string) (*Event, error) {
	return parser.Parse(line)
}
