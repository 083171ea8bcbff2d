package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/remdocs/remdocs/internal/tui/msgs"
)

func TestModel_View_TerminalTooSmall(t *testing.T) {
	tests := []struct {
		name        string
		width       int
		height      int
		expectSmall bool
	}{
		{
			name:        "exactly minimum size",
			width:       MinTerminalWidth,
			height:      MinTerminalHeight,
			expectSmall: false,
		},
		{
			name:        "width too small",
			width:       MinTerminalWidth - 1,
			height:      MinTerminalHeight,
			expectSmall: true,
		},
		{
			name:        "height too small",
			width:       MinTerminalWidth,
			height:      MinTerminalHeight - 1,
			expectSmall: true,
		},
		{
			name:        "larger than minimum",
			width:       100,
			height:      50,
			expectSmall: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			next, _ := m.Update(tea.WindowSizeMsg{Width: tt.width, Height: tt.height})

			view := next.View()

			if tt.expectSmall {
				for _, want := range []string{"Terminal too small", "Minimum:", "Current:"} {
					if !strings.Contains(view, want) {
						t.Errorf("expected view to contain %q", want)
					}
				}
			} else if strings.Contains(view, "Terminal too small") {
				t.Error("did not expect view to contain 'Terminal too small'")
			}
		})
	}
}

func TestModel_renderTerminalTooSmall_ShowsDimensions(t *testing.T) {
	m := newTestModel(t)
	m.width = 50
	m.height = 10

	view := m.renderTerminalTooSmall()

	if !strings.Contains(view, "60x15") {
		t.Error("expected minimum dimensions 60x15 to be shown")
	}
	if !strings.Contains(view, "50x10") {
		t.Error("expected current dimensions 50x10 to be shown")
	}
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name     string
		view     View
		key      tea.KeyMsg
		wantQuit bool
	}{
		{"ctrl+c in list", ViewList, tea.KeyMsg{Type: tea.KeyCtrlC}, true},
		{"ctrl+c in editor", ViewEditor, tea.KeyMsg{Type: tea.KeyCtrlC}, true},
		{"q in list", ViewList, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, true},
		{"q in editor", ViewEditor, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m.currentView = tt.view

			_, cmd := m.Update(tt.key)
			quit := false
			if cmd != nil {
				_, quit = cmd().(tea.QuitMsg)
			}
			if quit != tt.wantQuit {
				t.Errorf("quit = %v, want %v", quit, tt.wantQuit)
			}
		})
	}
}

func TestModel_Navigation(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(msgs.GoToProfileMsg{})
	if next.(Model).CurrentView() != ViewProfile {
		t.Fatalf("expected profile view, got %v", next.(Model).CurrentView())
	}

	next, cmd := next.Update(msgs.GoToListMsg{})
	if next.(Model).CurrentView() != ViewList {
		t.Fatalf("expected list view, got %v", next.(Model).CurrentView())
	}
	if cmd == nil {
		t.Error("expected returning to the list to reload it")
	}

	next, _ = next.Update(msgs.OpenEditorMsg{TaskID: "abc"})
	if next.(Model).CurrentView() != ViewEditor {
		t.Errorf("expected editor view, got %v", next.(Model).CurrentView())
	}
}
