package prefs_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmclub/screener/internal/prefs"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writePrefs(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), prefs.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefs.FileName)
	got := prefs.Load(path, testLogger())
	assert.Equal(t, prefs.Defaults(), got)
}

func TestLoad_DefaultFill(t *testing.T) {
	path := writePrefs(t, `{"shortsAreOneFilm": true}`)

	got := prefs.Load(path, testLogger())

	want := prefs.Defaults()
	want.ShortsAreOneFilm = true
	assert.Equal(t, want, got)
}

func TestLoad_UnknownKeysDropped(t *testing.T) {
	path := writePrefs(t, `{"lockSeenToggle": true, "colorScheme": "dark"}`)

	got := prefs.Load(path, testLogger())

	want := prefs.Defaults()
	want.LockSeenToggle = true
	assert.Equal(t, want, got)
}

func TestLoad_NotAnObject(t *testing.T) {
	path := writePrefs(t, `["not", "an", "object"]`)
	got := prefs.Load(path, testLogger())
	assert.Equal(t, prefs.Defaults(), got)
}

func TestLoad_WrongTypeKeepsDefault(t *testing.T) {
	path := writePrefs(t, `{"highlightAnimated": "yes", "shortsAreOneFilm": true}`)

	got := prefs.Load(path, testLogger())

	want := prefs.Defaults()
	want.ShortsAreOneFilm = true
	assert.Equal(t, want, got)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefs.FileName)

	want := prefs.Preferences{ShortsAreOneFilm: true, HighlightAnimated: false, LockSeenToggle: true}
	require.NoError(t, prefs.Save(path, want))

	assert.Equal(t, want, prefs.Load(path, testLogger()))
}
