package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/remdocs/remdocs/internal/tui/styles"
)

// StatusBar renders a bottom help bar showing contextual help items.
type StatusBar struct{}

// NewStatusBar creates a new StatusBar instance.
func NewStatusBar() StatusBar {
	return StatusBar{}
}

// Render returns the status bar string for the given width and items.
// Items are joined with " • " separator and padded to fill the width.
func (s StatusBar) Render(width int, items []string) string {
	return s.RenderWithMessage(width, items, "")
}

// RenderWithMessage is Render with msg right-aligned on the same line.
// The message is dropped when it does not fit next to the items.
func (s StatusBar) RenderWithMessage(width int, items []string, msg string) string {
	content := strings.Join(items, " • ")
	if msg != "" {
		gap := width - lipgloss.Width(content) - lipgloss.Width(msg)
		if gap >= 2 {
			content += strings.Repeat(" ", gap) + msg
		}
	}
	return styles.StatusBarStyle.Width(width).Render(content)
}
