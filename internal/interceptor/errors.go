package interceptor

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is matched by every configuration error returned
// from New and BuildAuthorizationURL.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// InvalidConfigurationError describes which AuthConfig field was rejected.
type InvalidConfigurationError struct {
	// Field is the AuthConfig field name.
	Field string

	// Value is the rejected value, empty for missing fields.
	Value string

	// Reason is a short human-readable explanation.
	Reason string

	// Err is the underlying parse error, if any.
	Err error
}

// Error implements the error interface.
func (e *InvalidConfigurationError) Error() string {
	msg := fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
	if e.Value != "" {
		msg = fmt.Sprintf("%s (%q)", msg, e.Value)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying parse error for error chain inspection.
func (e *InvalidConfigurationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidConfiguration.
func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

func invalidField(field, value, reason string, err error) *InvalidConfigurationError {
	return &InvalidConfigurationError{
		Field:  field,
		Value:  value,
		Reason: reason,
		Err:    err,
	}
}
