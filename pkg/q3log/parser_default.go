package q3log

import (
	"context"

	"github.com/q3log/q3log-go/internal/parser"
)

// DefaultParser parses the stock Quake 3 server log.
//
// Lines the server writes but that carry no summary value (ClientBegin,
// Item, chat, team scores, separators) are reported as matched without
// events, so a ChainFirst chain does not hand them to later parsers.
// Unrecognised lines are errors.
type DefaultParser struct{}

// ParseLine implements Parser.
func (DefaultParser) ParseLine(_ context.Context, line string) (ParseResult, error) {
	ev, err := parser.Parse(line)
	if err != nil {
		return ParseResult{}, err
	}
	if ev == nil {
		return ParseResult{Matched: true}, nil
	}
	return ParseResult{Events: []Event{*ev}, Matched: true}, nil
}

var _ Parser = DefaultParser{}
