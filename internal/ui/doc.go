// Package ui holds the terminal color themes and the lipgloss panel used by
// the CLI. Presentation packages read colors through the Color functions so
// that -no-color and NO_COLOR apply everywhere at once.
package ui
