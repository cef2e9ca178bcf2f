// Package testutil builds container fixtures in memory for tests: raw
// MP4 boxes, EBML elements, and small complete files with known sample
// layouts.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTemp writes data to a file in a per-test temporary directory and
// returns its path.
//
// Example:
//
//	path := testutil.WriteTemp(t, "movie.mp4", testutil.Movie(2000, testutil.ScenarioTrack()))
//	f, err := container.Open(path, types.OpenOptions{})
func WriteTemp(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

// TempFile creates an empty file in a per-test temporary directory, for
// writers that need an io.WriteSeeker. The file is closed at cleanup.
func TempFile(t *testing.T, name string) *os.File {
	t.Helper()

	f, err := os.Create(filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("Failed to create fixture file: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

// ReadBack returns everything written to f so far.
func ReadBack(t *testing.T, f *os.File) []byte {
	t.Helper()

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}
	return data
}
