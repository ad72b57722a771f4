package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	enabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Header renders a category or section heading.
func Header(text string) string {
	return headerStyle.Render(text)
}

// Enabled renders text in the enabled-mod color.
func Enabled(text string) string {
	return enabledStyle.Render(text)
}

// Disabled renders text in the disabled-mod color.
func Disabled(text string) string {
	return disabledStyle.Render(text)
}

// Dim renders de-emphasized text.
func Dim(text string) string {
	return dimStyle.Render(text)
}

// Warn renders warning text.
func Warn(text string) string {
	return warnStyle.Render(text)
}
