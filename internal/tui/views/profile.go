package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/remdocs/remdocs/internal/task"
	"github.com/remdocs/remdocs/internal/tui/components"
	"github.com/remdocs/remdocs/internal/tui/msgs"
	"github.com/remdocs/remdocs/internal/tui/styles"
)

// ProfileModel shows the user's profile and task statistics.
type ProfileModel struct {
	svc    Service
	userID string

	profile task.Profile
	stats   task.Stats
	loaded  bool
	err     error
	flash   string

	editing bool
	name    textinput.Model

	width  int
	height int
}

// NewProfileModel creates a profile view for userID.
func NewProfileModel(svc Service, userID string) ProfileModel {
	ti := textinput.New()
	ti.Placeholder = task.DefaultDisplayName
	ti.CharLimit = 60
	ti.Width = 40

	return ProfileModel{
		svc:    svc,
		userID: userID,
		name:   ti,
	}
}

// Init implements tea.Model.
func (m ProfileModel) Init() tea.Cmd {
	return loadProfileCmd(m.svc, m.userID)
}

// Update implements tea.Model.
func (m ProfileModel) Update(msg tea.Msg) (ProfileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case msgs.ProfileLoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.profile = msg.Profile
			m.stats = msg.Stats
			m.loaded = true
		}
		return m, nil

	case msgs.ProfileSavedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.profile = msg.Profile
		m.flash = "Profile saved"
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ProfileModel) handleKey(msg tea.KeyMsg) (ProfileModel, tea.Cmd) {
	m.flash = ""
	switch msg.String() {
	case "esc", "q":
		return m, func() tea.Msg { return msgs.GoToListMsg{} }
	case "v":
		if !m.loaded {
			return m, nil
		}
		public := !m.profile.IsPublic
		return m, saveProfileCmd(m.svc, m.userID, task.ProfilePatch{IsPublic: &public})
	case "e":
		if !m.loaded {
			return m, nil
		}
		m.editing = true
		m.name.SetValue(m.profile.DisplayName)
		m.name.CursorEnd()
		return m, tea.Batch(m.name.Focus(), textinput.Blink)
	case "r":
		return m, loadProfileCmd(m.svc, m.userID)
	}
	return m, nil
}

func (m ProfileModel) handleEditKey(msg tea.KeyMsg) (ProfileModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.name.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.name.Blur()
		name := strings.TrimSpace(m.name.Value())
		return m, saveProfileCmd(m.svc, m.userID, task.ProfilePatch{DisplayName: &name})
	}
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ProfileModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var content strings.Builder
	content.WriteString(styles.TitleStyle.Render("Profile"))
	content.WriteString("\n")

	switch {
	case !m.loaded && m.err != nil:
		content.WriteString(styles.ErrorStyle.Render("Error: " + m.err.Error()))
	case !m.loaded:
		content.WriteString(styles.SubtleStyle.Render("Loading..."))
	default:
		content.WriteString(m.renderProfile())
	}

	box := styles.BoxStyle.Render(content.String())
	centered := lipgloss.Place(m.width, max(m.height-1, 1), lipgloss.Center, lipgloss.Center, box)
	return centered + "\n" + m.renderStatusBar()
}

func (m ProfileModel) renderProfile() string {
	var b strings.Builder
	if m.editing {
		b.WriteString("Name: " + m.name.View())
	} else {
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.profile.DisplayName))
		b.WriteString("  ")
		b.WriteString(styles.SubtleStyle.Render("(" + visibility(m.profile.IsPublic) + ")"))
	}
	b.WriteString("\n")
	if m.profile.Bio != "" {
		b.WriteString(styles.SubtleStyle.Render(m.profile.Bio))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	s := m.stats
	b.WriteString(fmt.Sprintf("Tasks     %d\n", s.Total))
	b.WriteString(fmt.Sprintf("Todo      %d\n", s.Todo))
	b.WriteString(fmt.Sprintf("Doing     %d\n", s.Doing))
	b.WriteString(fmt.Sprintf("Done      %d\n", s.Done))
	b.WriteString(fmt.Sprintf("Expired   %d\n", s.Expired))
	b.WriteString("\n")
	b.WriteString("Average   " + components.NewProgress(s.AverageProgress, 20).View() + "\n")
	b.WriteString("Completed " + components.NewProgress(s.CompletionRate, 20).View())

	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(styles.ErrorStyle.Render("Error: " + m.err.Error()))
	}
	return b.String()
}

func (m ProfileModel) renderStatusBar() string {
	sb := components.NewStatusBar()
	if m.editing {
		return sb.Render(m.width, []string{"Enter Save", "Esc Cancel"})
	}
	items := []string{"e Edit name", "v Toggle visibility", "r Refresh", "Esc Back"}
	return sb.RenderWithMessage(m.width, items, styles.SuccessStyle.Render(m.flash))
}

func visibility(public bool) string {
	if public {
		return "public"
	}
	return "private"
}

// SetSize updates the model dimensions.
func (m *ProfileModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Profile returns the loaded profile.
func (m ProfileModel) Profile() task.Profile {
	return m.profile
}

// Stats returns the loaded statistics.
func (m ProfileModel) Stats() task.Stats {
	return m.stats
}

// Editing reports whether the display name is being edited.
func (m ProfileModel) Editing() bool {
	return m.editing
}
