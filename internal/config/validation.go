package config

import (
	"fmt"
	"strings"

	"authenticator/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	msg := ve.Message
	if ve.Field != "" {
		msg = fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
	}
	if ve.Value != nil {
		msg = fmt.Sprintf("%s (got %v)", msg, ve.Value)
	}
	return msg
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// Validate checks the settings owned by the host. Provider settings are
// validated by the interceptor when an attempt is created.
func (c Config) Validate() error {
	var errs ValidationErrors

	if c.Timeout < 0 {
		errs.Add("timeout", "must not be negative", c.Timeout)
	}
	if _, err := logging.ParseLogLevel(c.LogLevel); err != nil {
		errs.Add("logLevel", "must be one of debug, info, warn, error", c.LogLevel)
	}
	for i, prefix := range c.Auth.SuppressedPrefixes {
		if strings.TrimSpace(prefix) == "" {
			errs.Add(fmt.Sprintf("suppressedPrefixes[%d]", i), "must not be empty")
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
