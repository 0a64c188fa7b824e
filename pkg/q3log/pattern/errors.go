package pattern

import "fmt"

// ValidationError is a file-level problem (version, pattern count).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// PatternError is a problem with one pattern definition.
type PatternError struct {
	Index   int    // 0-based position in the file
	ID      string // empty if the id itself is missing
	Field   string
	Message string
	Cause   error
}

func (e *PatternError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("pattern %q: %s: %s", e.ID, e.Field, e.Message)
	}
	return fmt.Sprintf("pattern[%d]: %s: %s", e.Index, e.Field, e.Message)
}

func (e *PatternError) Unwrap() error {
	return e.Cause
}

// CaptureError is a captured value that does not fit its event field,
// such as a non-numeric client_id. It is returned by RegexParser.ParseLine.
type CaptureError struct {
	PatternID string
	Group     string
	Value     string
	Err       error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("pattern %q: group %s: invalid value %q: %v", e.PatternID, e.Group, e.Value, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}
