// Package styles defines shared lipgloss styles for the TUI and CLI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/remdocs/remdocs/internal/progress"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#5FAFAF") // Teal accent
	secondaryColor = lipgloss.Color("#666666") // Gray for secondary text
	successColor   = lipgloss.Color("#87AF87") // Muted sage for success
	errorColor     = lipgloss.Color("#AF5F5F") // Muted terracotta for errors

	// Progress bands
	bandHighColor    = lipgloss.Color("#5FAF5F")
	bandMidColor     = lipgloss.Color("#D7AF5F")
	bandLowColor     = lipgloss.Color("#D7875F")
	bandMinimalColor = lipgloss.Color("#D75F5F")

	// TitleStyle for headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// SubtleStyle for hints/help text
	SubtleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// SelectedStyle for selected items in lists
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// StatusBarStyle for bottom status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// BoxStyle for panel borders
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(secondaryColor).
			Padding(1, 2)

	// SuccessStyle for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// TabStyle and ActiveTabStyle render the task list filter tabs.
	TabStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Padding(0, 1)
	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Underline(true).
			Padding(0, 1)

	// Question grid cells.
	CellStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)
	CellDoneStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(successColor)
	CellCursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Underline(true)
)

// BandStyle colours text by progress band.
func BandStyle(b progress.Band) lipgloss.Style {
	switch b {
	case progress.BandHigh:
		return lipgloss.NewStyle().Foreground(bandHighColor)
	case progress.BandMid:
		return lipgloss.NewStyle().Foreground(bandMidColor)
	case progress.BandLow:
		return lipgloss.NewStyle().Foreground(bandLowColor)
	default:
		return lipgloss.NewStyle().Foreground(bandMinimalColor)
	}
}

// ProgressStyle colours text for a progress percentage.
func ProgressStyle(p int) lipgloss.Style {
	return BandStyle(progress.BandFor(p))
}
