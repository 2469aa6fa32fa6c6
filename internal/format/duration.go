// Package format provides pure formatting helpers shared by the CLI, the
// dashboard and the calibration report.
package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats d with a unit matching its magnitude:
// whole nanoseconds, microseconds or milliseconds below one second, and
// d.String() rounded to the millisecond above.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}

// FormatTiming formats a measured timing for tables, where anything below
// the clock resolution of a trial reads "< 1µs".
func FormatTiming(d time.Duration) string {
	if d < time.Microsecond {
		return "< 1µs"
	}
	return FormatExecutionDuration(d)
}
