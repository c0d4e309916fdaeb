package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorSearch   = 2   // Indicates a search unit failed or panicked.
	ExitErrorSink     = 3   // Indicates an output artifact could not be written.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
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

// SearchError encapsulates a failure of one search invocation while
// preserving the original cause.
type SearchError struct {
	// Level is the logical level N of the failed invocation.
	Level int
	// Cause is the underlying error that aborted the search.
	Cause error
}

// Error returns the level and the message of the underlying cause.
func (e SearchError) Error() string {
	return fmt.Sprintf("search for level %d failed: %v", e.Level, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e SearchError) Unwrap() error { return e.Cause }

// UnitPanicError reports a panic recovered inside one search unit. The run
// that owns the unit is aborted: dropping the unit's survivors silently would
// corrupt the candidate list.
type UnitPanicError struct {
	// J2 and J3 identify the unit (the second and third exponents it owns).
	J2, J3 int
	// Value is the value passed to panic.
	Value any
	// Stack is the goroutine stack captured at recovery time.
	Stack []byte
}

// Error returns a formatted message naming the unit and the panic value.
func (e UnitPanicError) Error() string {
	return fmt.Sprintf("search unit (j2=%d, j3=%d) panicked: %v", e.J2, e.J3, e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e UnitPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// SinkError reports a failed write to one of the output artifacts.
type SinkError struct {
	// Sink names the artifact ("tables" or "candidates").
	Sink string
	// Cause is the underlying I/O error.
	Cause error
}

// Error returns a formatted message naming the sink.
func (e SinkError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Sink, e.Cause)
}

// Unwrap returns the underlying I/O error.
func (e SinkError) Unwrap() error { return e.Cause }

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
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

// ExitCode maps an error returned by the application to its exit status.
// The most specific class wins: cancellation, then configuration, sink,
// and search failures.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		configErr     ConfigError
		validationErr ValidationError
		sinkErr       SinkError
		panicErr      UnitPanicError
		searchErr     SearchError
	)
	switch {
	case IsContextError(err):
		return ExitErrorCanceled
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		return ExitErrorConfig
	case errors.As(err, &sinkErr):
		return ExitErrorSink
	case errors.As(err, &panicErr), errors.As(err, &searchErr):
		return ExitErrorSearch
	}
	return ExitErrorGeneric
}
