package main

import (
	"fmt"

	"github.com/q3log/q3log-go/pkg/q3log"
	"github.com/q3log/q3log-go/pkg/q3log/pattern"
)

// buildParsers loads the pattern files, in order, followed by the default
// parser. It returns nil when there are no pattern files.
func buildParsers(patternFiles []string) ([]q3log.Parser, error) {
	if len(patternFiles) == 0 {
		return nil, nil
	}

	parsers := make([]q3log.Parser, 0, len(patternFiles)+1)
	for i, path := range patternFiles {
		rp, err := pattern.NewRegexParserFromFile(path)
		if err != nil {
			// pattern errors carry no path
			return nil, fmt.Errorf("pattern file %d: %w", i+1, err)
		}
		parsers = append(parsers, rp)
	}
	return append(parsers, q3log.DefaultParser{}), nil
}
