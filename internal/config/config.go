// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Client   ClientConfig   `toml:"client"`
	Identity IdentityConfig `toml:"identity"`
	State    StateConfig    `toml:"state"`
}

type ServerConfig struct {
	URL      string `toml:"url"`
	Year     int    `toml:"year"`
	LogLevel string `toml:"log_level"`
}

type ClientConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

type IdentityConfig struct {
	// GraceMs is the soft budget for directory confirmation before a
	// username correction is surfaced as a warning.
	GraceMs int `toml:"grace_ms"`
	// DirectoryTTLMinutes is the staleness window for the cached
	// user directory.
	DirectoryTTLMinutes int `toml:"directory_ttl_minutes"`
}

type StateConfig struct {
	// Dir holds cookies, preferences and the response cache.
	// Empty means $XDG_STATE_HOME/screener.
	Dir string `toml:"dir"`
}

// Grace returns the identity grace window as a duration.
func (c *Config) Grace() time.Duration {
	return time.Duration(c.Identity.GraceMs) * time.Millisecond
}

// DirectoryTTL returns the directory staleness window as a duration.
func (c *Config) DirectoryTTL() time.Duration {
	return time.Duration(c.Identity.DirectoryTTLMinutes) * time.Minute
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Year == 0 {
		c.Server.Year = time.Now().Year()
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Client.RequestsPerSecond == 0 {
		c.Client.RequestsPerSecond = 4
	}
	if c.Identity.GraceMs == 0 {
		c.Identity.GraceMs = 750
	}
	if c.Identity.DirectoryTTLMinutes == 0 {
		c.Identity.DirectoryTTLMinutes = 5
	}
	if c.State.Dir == "" {
		c.State.Dir = DefaultStateDir()
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
