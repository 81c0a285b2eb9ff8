package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes.
const (
	ExitSuccess       = 0   // Records were written.
	ExitErrorGeneric  = 1   // Unclassified failure.
	ExitErrorInput    = 2   // An input could not be opened or read.
	ExitErrorOutput   = 3   // Records could not be written.
	ExitErrorConfig   = 4   // Invalid flags or environment.
	ExitErrorCanceled = 130 // Interrupted (SIGINT).
)

// ConfigError represents a user configuration error, such as an invalid flag
// value or an unsupported output format.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError identifies a single configuration field that failed
// validation.
type ValidationError struct {
	// Field is the flag name that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// InputError records a failure to open or read a trace source.
type InputError struct {
	// Path is the source that failed; "-" is standard input.
	Path string
	// Cause is the underlying I/O error.
	Cause error
}

// Error returns the source path and the cause.
func (e InputError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying I/O error.
func (e InputError) Unwrap() error { return e.Cause }

// OutputError records a failure to write parsed records.
type OutputError struct {
	// Path is the destination; empty for standard output.
	Path string
	// Cause is the underlying error.
	Cause error
}

// Error returns the destination and the cause.
func (e OutputError) Error() string {
	dest := e.Path
	if dest == "" {
		dest = "stdout"
	}
	return fmt.Sprintf("writing %s: %v", dest, e.Cause)
}

// Unwrap returns the underlying error.
func (e OutputError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the process exit code.
//
// Parameters:
//   - err: The error returned by the application, possibly nil.
//
// Returns:
//   - int: The exit code for err.
func ExitCodeFor(err error) int {
	var (
		configErr     ConfigError
		validationErr ValidationError
		inputErr      InputError
		outputErr     OutputError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case IsContextError(err):
		return ExitErrorCanceled
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		return ExitErrorConfig
	case errors.As(err, &inputErr):
		return ExitErrorInput
	case errors.As(err, &outputErr):
		return ExitErrorOutput
	default:
		return ExitErrorGeneric
	}
}
