package config

import (
	"time"

	"authenticator/internal/interceptor"
)

const (
	// DefaultTimeout is how long login waits for the redirect by default.
	DefaultTimeout = 10 * time.Minute

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// GetDefaultConfig returns the default configuration. The authorization
// endpoint and client ID have no defaults.
func GetDefaultConfig() Config {
	return Config{
		Auth: interceptor.AuthConfig{
			RedirectURI: interceptor.DefaultRedirectURI,
			Scope:       interceptor.DefaultScope,
			ExtraParams: interceptor.DefaultExtraParams(),
		},
		Timeout:  DefaultTimeout,
		LogLevel: DefaultLogLevel,
	}
}

// applyDefaults fills fields left empty by a config file.
func applyDefaults(c *Config) {
	defaults := GetDefaultConfig()
	if c.Auth.RedirectURI == "" {
		c.Auth.RedirectURI = defaults.Auth.RedirectURI
	}
	if c.Auth.Scope == "" {
		c.Auth.Scope = defaults.Auth.Scope
	}
	if c.Auth.ExtraParams == nil {
		c.Auth.ExtraParams = defaults.Auth.ExtraParams
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
}
