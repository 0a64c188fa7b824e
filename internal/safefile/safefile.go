// Package safefile opens server log files, refusing anything that is not a
// plain regular file.
package safefile

import (
	"errors"
	"fmt"
	"os"
)

// ErrNotRegularFile is returned for symlinks, FIFOs, devices, sockets and
// directories.
var ErrNotRegularFile = errors.New("not a regular file")

// Check stats path without following symlinks and returns its info if it is
// a regular file.
func Check(path string) (os.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}
	return info, nil
}

// OpenLog opens path for reading after Check accepted it. The opened
// descriptor must still be the file that was checked, otherwise the file is
// closed and ErrNotRegularFile returned.
//
// The caller must close the returned file.
func OpenLog(path string) (*os.File, error) {
	checked, err := Check(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	opened, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !opened.Mode().IsRegular() || !os.SameFile(checked, opened) {
		f.Close()
		return nil, fmt.Errorf("%s: replaced while opening: %w", path, ErrNotRegularFile)
	}
	return f, nil
}
