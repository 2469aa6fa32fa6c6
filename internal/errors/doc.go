// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// calculation, kernel preconditions, etc.) and for carrying the underlying
// cause.
//
// The arithmetic kernels never return errors. Precondition violations and
// division by zero panic with *PreconditionError and ErrDivisionByZero; only
// the CLI layers recover them, through FromPanic.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All error types implement the Unwrap() method to support errors.Is() and errors.As().
package apperrors
