package cli

import (
	"errors"
	"fmt"

	"authenticator/internal/interceptor"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeInvalidConfig indicates the attempt could not start because the
	// configuration was rejected.
	ExitCodeInvalidConfig = 2
	// ExitCodeAuthFailed indicates the attempt started but no token arrived.
	ExitCodeAuthFailed = 3
)

// InvalidConfigError indicates the authentication attempt was refused before
// any browser surface was created.
type InvalidConfigError struct {
	// Reason is the underlying configuration error.
	Reason error
}

// Error returns a user-friendly error message with actionable guidance.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf(`%v

Set the value in ~/.config/authenticator/config.yaml or pass it as a flag:
  authenticator login --endpoint <url> --client-id <id>`, e.Reason)
}

// Unwrap returns the underlying error.
func (e *InvalidConfigError) Unwrap() error {
	return e.Reason
}

// AuthFailedError indicates no access token was received.
type AuthFailedError struct {
	// Endpoint is the authorization endpoint of the attempt.
	Endpoint string
	// Reason is the underlying error.
	Reason error
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthFailedError) Error() string {
	return fmt.Sprintf(`Authentication did not complete for %s: %v

To retry authentication, run:
  authenticator login`, e.Endpoint, e.Reason)
}

// Unwrap returns the underlying error.
func (e *AuthFailedError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthFailedError) Is(target error) bool {
	_, ok := target.(*AuthFailedError)
	return ok
}

// ExitCode determines the appropriate exit code based on the error type.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var invalidConfig *InvalidConfigError
	if errors.As(err, &invalidConfig) || errors.Is(err, interceptor.ErrInvalidConfiguration) {
		return ExitCodeInvalidConfig
	}

	var authFailed *AuthFailedError
	if errors.As(err, &authFailed) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}
