package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the escape codes used to highlight error messages.
// A nil provider prints plain text.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

type noColors struct{}

func (noColors) Red() string    { return "" }
func (noColors) Yellow() string { return "" }
func (noColors) Reset() string  { return "" }

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	var (
		timeoutErr  TimeoutError
		mismatchErr MismatchError
		configErr   ConfigError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &mismatchErr):
		return ExitErrorMismatch
	case errors.As(err, &configErr):
		return ExitErrorConfig
	}
	return ExitErrorGeneric
}

// HandleCalculationError prints a message describing err to out and returns
// the matching exit code. duration is reported when positive.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = noColors{}
	}
	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s", duration)
	}
	code := ExitCode(err)
	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "%sTimeout%s%s: %v\n", colors.Yellow(), suffix, colors.Reset(), err)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sCanceled%s%s\n", colors.Yellow(), suffix, colors.Reset())
	case ExitErrorMismatch:
		fmt.Fprintf(out, "%sMismatch%s%s: %v\n", colors.Red(), suffix, colors.Reset(), err)
	default:
		fmt.Fprintf(out, "%sError%s%s: %v\n", colors.Red(), suffix, colors.Reset(), err)
	}
	return code
}
