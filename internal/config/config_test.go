package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmclub/screener/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "screener.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[server]
url = "http://tracker.local:8787"
year = 2026
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://tracker.local:8787", cfg.Server.URL)
	assert.Equal(t, 2026, cfg.Server.Year)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 4.0, cfg.Client.RequestsPerSecond)
	assert.Equal(t, 750, cfg.Identity.GraceMs)
	assert.Equal(t, 5, cfg.Identity.DirectoryTTLMinutes)
	assert.NotEmpty(t, cfg.State.Dir)
	assert.Empty(t, cfg.Validate())
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("SCREENER_TEST_URL", "http://from-env:9999")
	path := writeConfig(t, `
[server]
url = "${SCREENER_TEST_URL}"
year = 2026
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:9999", cfg.Server.URL)
}

func TestLoad_UnresolvedEnvVarLeftAlone(t *testing.T) {
	path := writeConfig(t, `
[server]
url = "${SCREENER_DEFINITELY_UNSET_VAR}"
year = 2026
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "${SCREENER_DEFINITELY_UNSET_VAR}", cfg.Server.URL)
	assert.NotEmpty(t, cfg.Validate())
}

func TestValidate_Errors(t *testing.T) {
	path := writeConfig(t, `
[server]
url = "not a url"
year = 1850
log_level = "loud"

[client]
requests_per_second = -1.0
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	errs := cfg.Validate()
	assert.Len(t, errs, 4)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestWriteDefault_Loads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "screener.toml")
	require.NoError(t, config.WriteDefault(path))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Validate())
}

func TestConfigError_Format(t *testing.T) {
	err := &config.ConfigError{Path: "screener.toml", Errors: []string{"server.url: required"}}
	assert.True(t, err.HasErrors())
	assert.Contains(t, err.Error(), "server.url: required")
}
