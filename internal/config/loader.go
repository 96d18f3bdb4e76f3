package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"authenticator/pkg/logging"
)

const (
	userConfigDir  = ".config/authenticator"
	configFileName = "config.yaml"
)

// osUserHomeDir is a variable so tests can point it at a temp directory.
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns ~/.config/authenticator/config.yaml.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

// LoadConfig loads configuration from path. An empty path means the default
// location, which may be absent: defaults are returned in that case. An
// explicit path that does not exist is an error.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := GetDefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", path)
			return GetDefaultConfig(), nil
		}
		return Config{}, &ConfigurationError{
			FilePath:  path,
			ErrorType: "io",
			Message:   "failed to read configuration",
			Err:       err,
		}
	}

	cfg, err := Parse(data)
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			cfgErr.FilePath = path
			return Config{}, cfgErr
		}
		return Config{}, err
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s", path)
	return cfg, nil
}

// Parse decodes YAML configuration, fills defaults and validates it.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &ConfigurationError{
			FilePath:  "<input>",
			ErrorType: "parse",
			Message:   "malformed YAML",
			Err:       err,
		}
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, &ConfigurationError{
			FilePath:  "<input>",
			ErrorType: "validation",
			Message:   "invalid settings",
			Err:       err,
		}
	}
	return cfg, nil
}
