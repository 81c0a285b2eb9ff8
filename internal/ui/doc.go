// Package ui provides theme and color support for gctrace's terminal output.
// It holds the ANSI color scheme used for log and status lines and the
// lipgloss styles used by the table writer.
//
// Colors are disabled by the --no-color flag or the NO_COLOR environment
// variable.
package ui
