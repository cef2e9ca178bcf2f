package main

import (
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/boxkit/internal/testutil"
)

// movieFile writes the standard single-track movie fixture.
func movieFile(t *testing.T) string {
	t.Helper()
	return testutil.WriteTemp(t, "movie.mp4", testutil.Movie(2000, testutil.ScenarioTrack()))
}

// brokenFile writes a movie box whose second child overruns it.
func brokenFile(t *testing.T) string {
	t.Helper()
	bogus := testutil.Cat(testutil.RawHeader(200, "trak"), make([]byte, 16))
	data := testutil.Cat(
		testutil.Ftyp("isom"),
		testutil.Box("moov", testutil.Mvhd(1000, 0, 2), bogus),
	)
	return testutil.WriteTemp(t, "broken.mp4", data)
}

// resetFlags restores every global flag to its default.
func resetFlags() {
	verbose, quiet, jsonOut = false, false, false
	logFile, logLevel = "", "info"
	treeDepth, treeValues, treeCompact, treeOffsets = 0, false, false, true
	samplesTrack, samplesLimit = 0, 0
	dumpMaxBytes = 256
	diagFormat, diagOutputFile, diagShowSummary = "text", "", false
}

// captureOutput runs fn with os.Stdout redirected and returns what it wrote.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	saved := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = saved }()

	out := make(chan []byte)
	go func() {
		data, _ := io.ReadAll(r)
		out <- data
	}()

	fnErr := fn()
	require.NoError(t, w.Close())
	return string(<-out), fnErr
}

func assertJSON(t *testing.T, output string) {
	t.Helper()
	assert.True(t, json.Valid([]byte(output)), "invalid JSON:\n%s", output)
}

func assertContains(t *testing.T, output string, want []string) {
	t.Helper()
	for _, s := range want {
		assert.Contains(t, output, s)
	}
}

func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, s := range unwanted {
		assert.NotContains(t, output, s)
	}
}
