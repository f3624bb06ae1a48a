package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// The first ceremony was held for 1927/28 films.
const earliestYear = 1929

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Server.URL == "" {
		errs = append(errs, "server.url: required")
	} else if u, err := url.Parse(c.Server.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("server.url: not an absolute URL: %q", c.Server.URL))
	}

	if c.Server.Year < earliestYear || c.Server.Year > 2200 {
		errs = append(errs, fmt.Sprintf("server.year: implausible ceremony year %d", c.Server.Year))
	}

	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if c.Client.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Sprintf("client.requests_per_second: must be positive, got %g", c.Client.RequestsPerSecond))
	}

	if c.Identity.GraceMs <= 0 {
		errs = append(errs, fmt.Sprintf("identity.grace_ms: must be positive, got %d", c.Identity.GraceMs))
	}
	if c.Identity.DirectoryTTLMinutes <= 0 {
		errs = append(errs, fmt.Sprintf("identity.directory_ttl_minutes: must be positive, got %d", c.Identity.DirectoryTTLMinutes))
	}

	return errs
}
