// Package ui provides theme and color support for the natcalc output. It
// defines color schemes, exposes ANSI escape code functions for the CLI and
// the calibration report, and lipgloss palettes for the verify dashboard.
package ui
