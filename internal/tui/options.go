package tui

import (
	"log/slog"

	"github.com/remdocs/remdocs/internal/tui/views"
)

// Options configures TUI startup.
type Options struct {
	Service views.Service
	UserID  string
	Log     *slog.Logger // nil discards
}
