package identity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cookie keys and the null sentinel, kept byte-compatible with the web
// client so a shared state dir reads the same either way.
const (
	CookieUserID   = "activeUserId"
	CookieUsername = "activeUsername"
	NullValue      = "null"

	// CookieFileName is the jar file inside the state directory.
	CookieFileName = "cookies.json"

	// CookieExpiryDays is the fixed expiration for identity cookies.
	CookieExpiryDays = 400
)

type cookie struct {
	Value   string    `json:"value"`
	Expires time.Time `json:"expires"`
}

// CookieJar is a small persisted key/value store with per-entry expiry.
// It is untrusted, user-editable state: a corrupt file reads as empty,
// and the only failure callers see is "absent".
type CookieJar struct {
	path    string
	entries map[string]cookie
}

// OpenJar loads the jar at path, creating an empty one if the file is
// missing or unreadable.
func OpenJar(path string) *CookieJar {
	jar := &CookieJar{path: path, entries: make(map[string]cookie)}
	data, err := os.ReadFile(path)
	if err != nil {
		return jar
	}
	var entries map[string]cookie
	if err := json.Unmarshal(data, &entries); err != nil {
		return jar
	}
	jar.entries = entries
	return jar
}

// Get returns the value for key. ok is false for absent or expired entries.
func (j *CookieJar) Get(key string) (value string, ok bool) {
	entry, ok := j.entries[key]
	if !ok || time.Now().After(entry.Expires) {
		return "", false
	}
	return entry.Value, true
}

// Set stores a value expiring after the given number of days and persists
// the jar. Write failures are swallowed: cookies are best-effort state and
// the in-memory value remains correct for the rest of the run.
func (j *CookieJar) Set(key, value string, expiresInDays int) {
	j.entries[key] = cookie{
		Value:   value,
		Expires: time.Now().AddDate(0, 0, expiresInDays),
	}
	_ = j.save()
}

func (j *CookieJar) save() error {
	data, err := json.MarshalIndent(j.entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, j.path)
}
