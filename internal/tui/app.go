// Package tui is the interactive terminal front end.
package tui

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/remdocs/remdocs/internal/logging"
	"github.com/remdocs/remdocs/internal/tui/msgs"
	"github.com/remdocs/remdocs/internal/tui/styles"
	"github.com/remdocs/remdocs/internal/tui/views"
)

// Minimum terminal dimensions for the layout to render.
const (
	MinTerminalWidth  = 60
	MinTerminalHeight = 15
)

// View represents the different screens in the TUI.
type View int

const (
	ViewList View = iota
	ViewEditor
	ViewProfile
)

// Model is the main Bubble Tea model that routes between views.
type Model struct {
	currentView View
	width       int
	height      int

	svc    views.Service
	userID string
	log    *slog.Logger

	list    views.TaskListModel
	editor  views.EditorModel
	profile views.ProfileModel
}

// Run starts the TUI application.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}

// NewModel creates the root model showing the task list.
func NewModel(opts Options) Model {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	return Model{
		currentView: ViewList,
		svc:         opts.Service,
		userID:      opts.UserID,
		log:         log,
		list:        views.NewTaskListModel(opts.Service, opts.UserID),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.list.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height)
		m.editor.SetSize(msg.Width, msg.Height)
		m.profile.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.currentView == ViewList && !m.list.Deleting() {
				return m, tea.Quit
			}
		}

	case msgs.OpenEditorMsg:
		m.log.Debug("opening editor", "task_id", msg.TaskID)
		m.editor = views.NewEditorModel(m.svc, m.userID, msg.TaskID)
		m.editor.SetSize(m.width, m.height)
		m.currentView = ViewEditor
		return m, m.editor.Init()

	case msgs.GoToListMsg:
		m.currentView = ViewList
		var cmd tea.Cmd
		m.list, cmd = m.list.Reload()
		return m, cmd

	case msgs.GoToProfileMsg:
		m.profile = views.NewProfileModel(m.svc, m.userID)
		m.profile.SetSize(m.width, m.height)
		m.currentView = ViewProfile
		return m, m.profile.Init()

	// Results of async work go to the view that requested them even if the
	// user has navigated away.
	case msgs.TasksLoadedMsg, msgs.TaskDeletedMsg:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd

	case msgs.TaskLoadedMsg, msgs.TaskSavedMsg, msgs.SaveFailedMsg, spinner.TickMsg:
		if saved, ok := msg.(msgs.TaskSavedMsg); ok {
			m.log.Info("progress saved", "task_id", saved.Task.ID, "progress", saved.Task.Progress)
		}
		if failed, ok := msg.(msgs.SaveFailedMsg); ok {
			m.log.Warn("progress save failed", "error", failed.Err)
		}
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd

	case msgs.ProfileLoadedMsg, msgs.ProfileSavedMsg:
		var cmd tea.Cmd
		m.profile, cmd = m.profile.Update(msg)
		return m, cmd
	}

	return m.updateCurrent(msg)
}

func (m Model) updateCurrent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewList:
		m.list, cmd = m.list.Update(msg)
	case ViewEditor:
		m.editor, cmd = m.editor.Update(msg)
	case ViewProfile:
		m.profile, cmd = m.profile.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width > 0 && m.height > 0 && (m.width < MinTerminalWidth || m.height < MinTerminalHeight) {
		return m.renderTerminalTooSmall()
	}

	switch m.currentView {
	case ViewEditor:
		return m.editor.View()
	case ViewProfile:
		return m.profile.View()
	default:
		return m.list.View()
	}
}

func (m Model) renderTerminalTooSmall() string {
	content := styles.ErrorStyle.Render("Terminal too small") + "\n\n" +
		fmt.Sprintf("Minimum: %dx%d\n", MinTerminalWidth, MinTerminalHeight) +
		styles.SubtleStyle.Render(fmt.Sprintf("Current: %dx%d", m.width, m.height))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// CurrentView returns the active screen.
func (m Model) CurrentView() View {
	return m.currentView
}
