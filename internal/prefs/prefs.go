// Package prefs persists the small per-user preference record.
// The file is user-editable state, so loading is tolerant: unknown keys
// are dropped, missing keys are default-filled, and anything that is not
// a JSON object falls back to the defaults.
package prefs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileName is the preferences file inside the state directory.
const FileName = "preferences.json"

// Preferences are the known settings and their wire keys.
type Preferences struct {
	// ShortsAreOneFilm folds the films of a short-film category into a
	// single line of the nomination table.
	ShortsAreOneFilm bool `json:"shortsAreOneFilm"`
	// HighlightAnimated styles animated films distinctly.
	HighlightAnimated bool `json:"highlightAnimated"`
	// LockSeenToggle refuses local seen-toggling when the seen state is
	// slaved to an external source.
	LockSeenToggle bool `json:"lockSeenToggle"`
}

// Defaults returns the preference values used when nothing is stored.
func Defaults() Preferences {
	return Preferences{
		ShortsAreOneFilm:  false,
		HighlightAnimated: true,
		LockSeenToggle:    false,
	}
}

// Load reads preferences from path. It never fails: a missing file yields
// the defaults silently, a malformed one yields the defaults with a warning.
func Load(path string, log *slog.Logger) Preferences {
	out := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("preferences unreadable, using defaults", "path", path, "error", err)
		}
		return out
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn("preferences malformed, using defaults", "path", path, "error", err)
		return out
	}

	// Per-key fill keeps valid settings when one key has the wrong type.
	readBool(raw, "shortsAreOneFilm", &out.ShortsAreOneFilm, log)
	readBool(raw, "highlightAnimated", &out.HighlightAnimated, log)
	readBool(raw, "lockSeenToggle", &out.LockSeenToggle, log)
	return out
}

func readBool(raw map[string]json.RawMessage, key string, dst *bool, log *slog.Logger) {
	msg, ok := raw[key]
	if !ok {
		return
	}
	var v bool
	if err := json.Unmarshal(msg, &v); err != nil {
		log.Warn("preference has wrong type, keeping default", "key", key)
		return
	}
	*dst = v
}

// Save writes preferences to path atomically.
func Save(path string, p Preferences) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}
