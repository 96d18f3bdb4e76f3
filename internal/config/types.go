package config

import (
	"time"

	"authenticator/internal/interceptor"
)

// Config is the top-level configuration structure for authenticator.
type Config struct {
	// Auth holds the provider settings for an attempt.
	Auth interceptor.AuthConfig `yaml:",inline"`

	// Timeout bounds how long login waits for the redirect. The interceptor
	// itself never times out; this is the host's bound.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel,omitempty"`
}

// AuthConfig returns a copy of the provider settings.
func (c Config) AuthConfig() interceptor.AuthConfig {
	return c.Auth.Clone()
}
