// Package ui provides the color themes shared by the CLI and the TUI.
// The CLI reads ANSI escape codes through the Color* functions; the TUI
// reads lipgloss colors through GetCurrentTUITheme. Both honor NO_COLOR and
// the -no-color flag via InitTheme.
package ui
