package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./screener.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "screener", "config.toml")
}

// DefaultStateDir returns the XDG-compliant state directory, which holds
// cookies, preferences and the response cache.
func DefaultStateDir() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./.screener"
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "screener")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. SCREENER_CONFIG environment variable
//  2. ./screener.toml (current directory)
//  3. $XDG_CONFIG_HOME/screener/config.toml
//  4. /etc/screener/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv("SCREENER_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("SCREENER_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	paths := []string{
		"./screener.toml",
		DefaultPath(),
		"/etc/screener/config.toml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("config not found, checked: %s (run 'screener init' to create one)", strings.Join(paths, ", "))
}
