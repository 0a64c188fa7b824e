// Package logfinder locates Quake 3 server logs.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// LogPattern matches the log files considered inside a directory.
const LogPattern = "*.log"

// Sentinel errors.
var (
	ErrLogNotFound = errors.New("server log not found")
	ErrNoLogFiles  = errors.New("no log files found")
)

// DefaultLogDirs returns the directories searched when no log is given, in
// priority order: the working directory, then the user's baseq3 folders.
func DefaultLogDirs() []string {
	dirs := []string{"."}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return dirs
	}
	return append(dirs,
		filepath.Join(home, ".q3a", "baseq3"),
		filepath.Join(home, ".ioquake3", "baseq3"),
	)
}

// FindLogFile resolves the log to read.
//
// A non-empty explicit names either a file, returned as is, or a directory,
// in which case its newest log is returned. With explicit empty the
// DefaultLogDirs are searched.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		info, err := os.Stat(explicit)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrLogNotFound, explicit)
		}
		if !info.IsDir() {
			return explicit, nil
		}
		return FindLatestLogFile(explicit)
	}

	for _, dir := range DefaultLogDirs() {
		if path, err := FindLatestLogFile(dir); err == nil {
			return path, nil
		}
	}
	return "", ErrLogNotFound
}

type logCandidate struct {
	path    string
	modTime int64
}

// FindLatestLogFile returns the most recently modified regular log file in
// dir, or ErrNoLogFiles.
func FindLatestLogFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, LogPattern))
	if err != nil {
		return "", fmt.Errorf("globbing log files: %w", err)
	}

	// stat once: files may vanish between filtering and sorting
	candidates := make([]logCandidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, logCandidate{path: m, modTime: info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoLogFiles, dir)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime > candidates[j].modTime
	})
	return candidates[0].path, nil
}
