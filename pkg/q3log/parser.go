package q3log

import (
	"context"
	"errors"
)

// ParseResult is the outcome of parsing one line.
type ParseResult struct {
	// Events parsed from the line. A line may produce several.
	Events []Event

	// Matched reports whether the parser recognised the line, which may be
	// true with no Events (recognised but irrelevant lines).
	Matched bool
}

// Parser turns log lines into raw events. DefaultParser understands the
// stock server log; pattern.RegexParser adds lines of modded servers.
type Parser interface {
	// ParseLine returns Matched=false for lines it does not recognise and
	// an error only for lines it recognises but cannot decode.
	ParseLine(ctx context.Context, line string) (ParseResult, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(ctx context.Context, line string) (ParseResult, error)

// ParseLine calls f.
func (f ParserFunc) ParseLine(ctx context.Context, line string) (ParseResult, error) {
	return f(ctx, line)
}

// ChainMode selects how a ParserChain combines its parsers.
type ChainMode int

const (
	// ChainAll runs every parser and concatenates their events.
	ChainAll ChainMode = iota

	// ChainFirst stops at the first parser that matches.
	ChainFirst

	// ChainContinueOnError runs every parser, skipping the failing ones.
	// Their errors are joined and returned with the events of the others.
	ChainContinueOnError
)

// ParserChain runs several parsers on each line.
type ParserChain struct {
	Mode    ChainMode
	Parsers []Parser
}

// ParseLine runs the chain. On context cancellation it returns what was
// collected so far together with the context error.
func (c *ParserChain) ParseLine(ctx context.Context, line string) (ParseResult, error) {
	var res ParseResult
	var errs []error

	for _, p := range c.Parsers {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if p == nil {
			continue
		}

		r, err := p.ParseLine(ctx, line)
		if err != nil {
			if c.Mode != ChainContinueOnError {
				return ParseResult{}, err
			}
			errs = append(errs, err)
			continue
		}
		if !r.Matched {
			continue
		}
		res.Matched = true
		res.Events = append(res.Events, r.Events...)
		if c.Mode == ChainFirst {
			return res, nil
		}
	}
	return res, errors.Join(errs...)
}
