package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJar_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), CookieFileName)

	jar := OpenJar(path)
	jar.Set(CookieUserID, "usr_abc123", CookieExpiryDays)

	// A fresh jar reads the persisted value.
	reopened := OpenJar(path)
	got, ok := reopened.Get(CookieUserID)
	require.True(t, ok)
	assert.Equal(t, "usr_abc123", got)
}

func TestJar_AbsentKey(t *testing.T) {
	jar := OpenJar(filepath.Join(t.TempDir(), CookieFileName))
	_, ok := jar.Get("nope")
	assert.False(t, ok)
}

func TestJar_ExpiredReadsAsAbsent(t *testing.T) {
	jar := OpenJar(filepath.Join(t.TempDir(), CookieFileName))
	jar.Set(CookieUsername, "frank", -1)

	_, ok := jar.Get(CookieUsername)
	assert.False(t, ok)
}

func TestJar_CorruptFileReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), CookieFileName)
	require.NoError(t, os.WriteFile(path, []byte("{{{ not json"), 0o600))

	jar := OpenJar(path)
	_, ok := jar.Get(CookieUserID)
	assert.False(t, ok)

	// The jar stays usable after the corrupt read.
	jar.Set(CookieUserID, "usr_abc123", CookieExpiryDays)
	got, ok := jar.Get(CookieUserID)
	require.True(t, ok)
	assert.Equal(t, "usr_abc123", got)
}
