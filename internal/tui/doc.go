// Package tui is the interactive dashboard of the verify command. It runs
// the same checkers as the CLI and renders their progress, results and the
// load of the machine with bubbletea and lipgloss.
package tui
