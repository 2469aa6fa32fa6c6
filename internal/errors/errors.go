package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrDivisionByZero is the panic value raised by every division entry point
// when the divisor is zero.
var ErrDivisionByZero = errors.New("division by zero")

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates a result mismatch between multiplication or division algorithms.
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
//
// Returns:
//   - string: The error message string.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
// It allows for the creation of configuration-specific errors with dynamic
// content.
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

// CalculationError encapsulates a calculation error while preserving the
// original cause. The orchestration layer uses it to report a kernel panic
// recovered during a verification run.
type CalculationError struct {
	// Cause is the underlying error that triggered this calculation error.
	Cause error
}

// Error returns the error message from the underlying cause.
//
// Returns:
//   - string: The error message string from the wrapped error.
func (e CalculationError) Error() string { return e.Cause.Error() }

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
//
// Returns:
//   - error: The underlying cause of the CalculationError.
func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError represents a calculation timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
//
// Returns:
//   - string: The error message string.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
//
// Returns:
//   - string: The error message string.
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
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// PreconditionError reports a violated kernel precondition: a buffer that is
// too short, an unnormalized divisor, or an invalid aliasing of operands.
// Kernels never return it; they panic with it, because it always signals a
// bug in the caller.
type PreconditionError struct {
	// Op is the name of the kernel whose precondition failed.
	Op string
	// Message describes the violated condition.
	Message string
}

// Error returns a formatted message naming the kernel and the condition.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: precondition violated: %s", e.Op, e.Message)
}

// PanicPrecondition panics with a *PreconditionError for op.
//
// Parameters:
//   - op: The kernel name.
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the message.
func PanicPrecondition(op, format string, a ...any) {
	panic(&PreconditionError{Op: op, Message: fmt.Sprintf(format, a...)})
}

// MismatchError reports that two algorithms produced different results for
// the same operands.
type MismatchError struct {
	// Algorithm is the name of the algorithm whose result disagreed.
	Algorithm string
	// Reference is the name of the algorithm used as reference.
	Reference string
	// Sizes describes the operand lengths in limbs.
	Sizes string
}

// Error returns a formatted message describing the mismatch.
func (e MismatchError) Error() string {
	return fmt.Sprintf("%s disagrees with %s for operands of %s limbs", e.Algorithm, e.Reference, e.Sizes)
}

// FromPanic converts a value recovered from a kernel panic into an error.
// Errors are wrapped in a CalculationError; any other value is formatted.
//
// Parameters:
//   - r: The value returned by recover(). Must be non-nil.
//
// Returns:
//   - error: A CalculationError carrying the cause.
func FromPanic(r any) error {
	if err, ok := r.(error); ok {
		return CalculationError{Cause: err}
	}
	return CalculationError{Cause: fmt.Errorf("panic: %v", r)}
}
