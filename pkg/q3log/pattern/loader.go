package pattern

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/q3log/q3log-go/internal/safefile"
	"github.com/q3log/q3log-go/pkg/q3log/event"
)

const (
	// MaxPatternFileSize is the maximum size of a pattern file (1MB).
	MaxPatternFileSize = 1 * 1024 * 1024

	// MaxPatternLength is the maximum length of one regex (512 bytes).
	MaxPatternLength = 512

	// MaxPatternCount is the maximum number of patterns in a file.
	MaxPatternCount = 1000

	// SupportedVersion is the supported file format version.
	SupportedVersion = 1
)

// sanitizePathError drops the path from an *os.PathError so that messages
// do not echo file system locations.
func sanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}

// Load reads and validates a pattern file. Only regular files are
// accepted.
func Load(path string) (*PatternFile, error) {
	f, err := safefile.OpenLog(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pattern file: %w", sanitizePathError(err))
	}
	defer f.Close()

	// one extra byte detects files above the limit
	data, err := io.ReadAll(io.LimitReader(f, MaxPatternFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file: %w", sanitizePathError(err))
	}
	return LoadBytes(data)
}

// LoadBytes parses and validates a pattern file held in memory.
func LoadBytes(data []byte) (*PatternFile, error) {
	if len(data) == 0 {
		return nil, errors.New("pattern file is empty")
	}
	if len(data) > MaxPatternFileSize {
		return nil, fmt.Errorf("pattern file too large: %d bytes (max %d)", len(data), MaxPatternFileSize)
	}

	var pf PatternFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := pf.Validate(); err != nil {
		return nil, err
	}
	return &pf, nil
}

// Validate checks the schema of the file: version, pattern count, required
// fields, unique ids, known event types and regex length. Regexes are
// compiled by NewRegexParser, not here.
func (pf *PatternFile) Validate() error {
	if pf.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", pf.Version, SupportedVersion),
		}
	}
	if len(pf.Patterns) == 0 {
		return &ValidationError{Field: "patterns", Message: "at least one pattern is required"}
	}
	if len(pf.Patterns) > MaxPatternCount {
		return &ValidationError{
			Field:   "patterns",
			Message: fmt.Sprintf("too many patterns (%d), maximum allowed is %d", len(pf.Patterns), MaxPatternCount),
		}
	}

	seenIDs := make(map[string]int, len(pf.Patterns))
	for i, p := range pf.Patterns {
		if p.ID == "" {
			return &PatternError{Index: i, Field: "id", Message: "id is required"}
		}
		if prev, ok := seenIDs[p.ID]; ok {
			return &PatternError{
				Index:   i,
				ID:      p.ID,
				Field:   "id",
				Message: fmt.Sprintf("duplicate id (previously defined at pattern[%d])", prev),
			}
		}
		seenIDs[p.ID] = i

		switch {
		case p.Ignore && p.EventType != "":
			return &PatternError{Index: i, ID: p.ID, Field: "event_type", Message: "must be empty when ignore is set"}
		case !p.Ignore && p.EventType == "":
			return &PatternError{Index: i, ID: p.ID, Field: "event_type", Message: "event_type is required"}
		case !p.Ignore:
			if _, ok := event.ParseType(p.EventType); !ok {
				return &PatternError{
					Index:   i,
					ID:      p.ID,
					Field:   "event_type",
					Message: fmt.Sprintf("unknown event type %q (valid: %v)", p.EventType, event.TypeNames()),
				}
			}
		}

		if p.Regex == "" {
			return &PatternError{Index: i, ID: p.ID, Field: "regex", Message: "regex is required"}
		}
		if len(p.Regex) > MaxPatternLength {
			return &PatternError{
				Index:   i,
				ID:      p.ID,
				Field:   "regex",
				Message: fmt.Sprintf("pattern too long: %d bytes (max %d)", len(p.Regex), MaxPatternLength),
			}
		}
	}
	return nil
}
