package config

import (
	"fmt"
)

// ConfigurationError represents a structured error that occurs during configuration loading
type ConfigurationError struct {
	FilePath  string // Full path to the file that caused the error
	ErrorType string // Type of error (parse, validation, io)
	Message   string // Human-readable error message
	Err       error  // Underlying error
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	if ce.Err != nil {
		return fmt.Sprintf("%s error in %s: %s: %v", ce.ErrorType, ce.FilePath, ce.Message, ce.Err)
	}
	return fmt.Sprintf("%s error in %s: %s", ce.ErrorType, ce.FilePath, ce.Message)
}

// Unwrap returns the underlying error.
func (ce *ConfigurationError) Unwrap() error {
	return ce.Err
}
