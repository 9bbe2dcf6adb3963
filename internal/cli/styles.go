// Package cli provides styled terminal output and prompts for the
// non-interactive commands.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette shared with the browser theme.
var (
	accent  = lipgloss.Color("#5B8DEF")
	green   = lipgloss.Color("#4ECDC4")
	amber   = lipgloss.Color("#FFE66D")
	red     = lipgloss.Color("#FF6B6B")
	mint    = lipgloss.Color("#95E1D3")
	gray = lipgloss.Color("#666666")
)

var (
	successStyle = lipgloss.NewStyle().Foreground(green)
	warningStyle = lipgloss.NewStyle().Foreground(amber)
	errorStyle   = lipgloss.NewStyle().Foreground(red)
	infoStyle    = lipgloss.NewStyle().Foreground(mint)
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)

	// SubtleStyle renders defaults and hints next to prompts.
	SubtleStyle = lipgloss.NewStyle().Foreground(gray)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	CardIcon    = "💳"
)

// FormatSuccess renders a confirmation such as "Transaction added".
func FormatSuccess(message string) string {
	return successStyle.Render(SuccessIcon + " " + message)
}

// FormatError renders a command failure.
func FormatError(message string) string {
	return errorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning renders a non-fatal problem.
func FormatWarning(message string) string {
	return warningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo renders a neutral note.
func FormatInfo(message string) string {
	return infoStyle.Render(InfoIcon + " " + message)
}

// FormatPrompt renders a question waiting for input.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt + " → ")
}
