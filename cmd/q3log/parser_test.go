package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/q3log/q3log-go/pkg/q3log"
)

func TestBuildParsers_NoPatterns(t *testing.T) {
	parsers, err := buildParsers(nil)
	if err != nil {
		t.Fatalf("buildParsers(nil) error = %v", err)
	}
	if parsers != nil {
		t.Errorf("buildParsers(nil) = %v, want nil", parsers)
	}
}

func TestBuildParsers_ValidPattern(t *testing.T) {
	dir := t.TempDir()
	patternFile := filepath.Join(dir, "patterns.yaml")
	content := `version: 1
patterns:
  - id: osp_frag
    event_type: Kill
    regex: 'Frag: (?P<killer_id>\d+) (?P<victim_id>\d+)'
`
	if err := os.WriteFile(patternFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	parsers, err := buildParsers([]string{patternFile})
	if err != nil {
		t.Fatalf("buildParsers() error = %v", err)
	}
	if len(parsers) != 2 {
		t.Fatalf("buildParsers() returned %d parsers, want 2", len(parsers))
	}
	if _, ok := parsers[1].(q3log.DefaultParser); !ok {
		t.Errorf("last parser = %T, want q3log.DefaultParser", parsers[1])
	}
}

func TestBuildParsers_FileNotFound(t *testing.T) {
	_, err := buildParsers([]string{"/nonexistent/patterns.yaml"})
	if err == nil {
		t.Fatal("buildParsers() expected error for nonexistent file")
	}
	errStr := err.Error()
	if strings.Contains(errStr, "/nonexistent") {
		t.Errorf("error message should not contain path: %s", errStr)
	}
	if !strings.Contains(errStr, "pattern file 1") {
		t.Errorf("error message should name the file index: %s", errStr)
	}
}

func TestBuildParsers_InvalidRegex(t *testing.T) {
	dir := t.TempDir()
	patternFile := filepath.Join(dir, "broken.yaml")
	content := `version: 1
patterns:
  - id: broken
    event_type: Kill
    regex: '(unclosed'
`
	if err := os.WriteFile(patternFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := buildParsers([]string{patternFile})
	if err == nil || !strings.Contains(err.Error(), "invalid regular expression") {
		t.Errorf("buildParsers() error = %v, want invalid regular expression", err)
	}
}
