package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/remdocs/remdocs/internal/task"
	"github.com/remdocs/remdocs/internal/tui/components"
	"github.com/remdocs/remdocs/internal/tui/msgs"
	"github.com/remdocs/remdocs/internal/tui/styles"
)

// Lines used by the title, tabs and status bar around the list.
const taskListChrome = 6

// TaskListModel is the model for the tabbed task list.
type TaskListModel struct {
	svc    Service
	userID string

	tab      task.Tab
	tasks    []task.Task
	cursor   int
	offset   int
	loading  bool
	err      error
	flash    string
	deleting bool // awaiting y/n for the task under the cursor

	now    func() time.Time
	width  int
	height int
}

// NewTaskListModel creates a list showing every task.
func NewTaskListModel(svc Service, userID string) TaskListModel {
	return TaskListModel{
		svc:     svc,
		userID:  userID,
		tab:     task.TabAll,
		loading: true,
		now:     time.Now,
	}
}

// Init implements tea.Model.
func (m TaskListModel) Init() tea.Cmd {
	return loadTasksCmd(m.svc, m.userID, m.tab)
}

// Reload refreshes the current tab.
func (m TaskListModel) Reload() (TaskListModel, tea.Cmd) {
	m.loading = true
	return m, loadTasksCmd(m.svc, m.userID, m.tab)
}

// Update implements tea.Model.
func (m TaskListModel) Update(msg tea.Msg) (TaskListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil

	case msgs.TasksLoadedMsg:
		if msg.Tab != m.tab {
			// Stale result from a tab the user already left.
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.tasks = msg.Tasks
		}
		if m.cursor >= len(m.tasks) {
			m.cursor = max(len(m.tasks)-1, 0)
		}
		m.clampScroll()
		return m, nil

	case msgs.TaskDeletedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.flash = "Task deleted"
		return m.Reload()

	case tea.KeyMsg:
		if m.deleting {
			return m.handleDeleteConfirm(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m TaskListModel) handleKey(msg tea.KeyMsg) (TaskListModel, tea.Cmd) {
	m.flash = ""
	switch key := msg.String(); key {
	case "tab":
		return m.selectTab(nextTab(m.tab, 1))
	case "shift+tab":
		return m.selectTab(nextTab(m.tab, -1))
	case "1", "2", "3", "4", "5":
		return m.selectTab(task.Tabs[int(key[0]-'1')])
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.clampScroll()
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
			m.clampScroll()
		}
	case "enter":
		if t, ok := m.Selected(); ok {
			return m, func() tea.Msg { return msgs.OpenEditorMsg{TaskID: t.ID} }
		}
	case "d":
		if _, ok := m.Selected(); ok {
			m.deleting = true
		}
	case "p":
		return m, func() tea.Msg { return msgs.GoToProfileMsg{} }
	case "r":
		return m.Reload()
	}
	return m, nil
}

func (m TaskListModel) handleDeleteConfirm(msg tea.KeyMsg) (TaskListModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.deleting = false
		if t, ok := m.Selected(); ok {
			return m, deleteTaskCmd(m.svc, m.userID, t.ID)
		}
	case "n", "N", "esc":
		m.deleting = false
	}
	return m, nil
}

func (m TaskListModel) selectTab(tab task.Tab) (TaskListModel, tea.Cmd) {
	if tab == m.tab {
		return m, nil
	}
	m.tab = tab
	m.tasks = nil
	m.cursor = 0
	m.offset = 0
	return m.Reload()
}

func nextTab(current task.Tab, step int) task.Tab {
	for i, tab := range task.Tabs {
		if tab == current {
			n := len(task.Tabs)
			return task.Tabs[((i+step)%n+n)%n]
		}
	}
	return task.TabAll
}

// visibleRows is how many task lines fit on screen.
func (m TaskListModel) visibleRows() int {
	return max(m.height-taskListChrome, 1)
}

// clampScroll keeps the cursor inside the visible window.
func (m *TaskListModel) clampScroll() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View implements tea.Model.
func (m TaskListModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder
	title := styles.TitleStyle.Render("Remdocs")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	body := m.renderBody()
	b.WriteString(body)

	used := lipgloss.Height(title) + 3 + lipgloss.Height(body)
	if pad := m.height - used - 1; pad > 0 {
		b.WriteString(strings.Repeat("\n", pad))
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m TaskListModel) renderTabs() string {
	var tabs []string
	for i, tab := range task.Tabs {
		label := fmt.Sprintf("%d %s", i+1, strings.ToUpper(string(tab[:1]))+string(tab[1:]))
		if tab == m.tab {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(label))
		}
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m TaskListModel) renderBody() string {
	switch {
	case m.err != nil:
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, styles.ErrorStyle.Render("Error: "+m.err.Error()))
	case m.loading && len(m.tasks) == 0:
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, styles.SubtleStyle.Render("Loading..."))
	case len(m.tasks) == 0:
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, styles.SubtleStyle.Render("No tasks in this tab."))
	}

	now := m.now()
	end := min(m.offset+m.visibleRows(), len(m.tasks))
	var lines []string
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.formatTaskLine(i, m.tasks[i], now))
	}
	return strings.Join(lines, "\n")
}

// formatTaskLine formats a single task line for display.
func (m TaskListModel) formatTaskLine(index int, t task.Task, now time.Time) string {
	indicator := "○"
	if index == m.cursor {
		indicator = "●"
	}

	titleWidth := max(m.width-52, 12)
	title := t.Title
	if lipgloss.Width(title) > titleWidth {
		title = string([]rune(title)[:titleWidth-1]) + "…"
	}

	status := task.DisplayStatus(t, now)
	due := t.DueDate.Local().Format("Jan 02")
	bar := components.NewProgress(t.Progress, 10).View()

	line := fmt.Sprintf("%s %-*s  %s  %-7s  %s", indicator, titleWidth, title, bar, status, due)
	switch {
	case index == m.cursor:
		line = styles.SelectedStyle.Render(line)
	case status == string(task.TabExpired):
		line = styles.ErrorStyle.Render(line)
	case t.Status == task.StatusDone:
		line = styles.SubtleStyle.Render(line)
	}
	return " " + line
}

func (m TaskListModel) renderStatusBar() string {
	sb := components.NewStatusBar()
	if m.deleting {
		t, _ := m.Selected()
		return sb.Render(m.width, []string{fmt.Sprintf("Delete %q?", t.Title), "y Yes", "n No"})
	}
	items := []string{"↑↓ Navigate", "Tab/1-5 Filter", "Enter Edit", "d Delete", "p Profile", "q Quit"}
	return sb.RenderWithMessage(m.width, items, styles.SuccessStyle.Render(m.flash))
}

// SetSize updates the model dimensions.
func (m *TaskListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampScroll()
}

// Selected returns the task under the cursor.
func (m TaskListModel) Selected() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return task.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// Tab returns the active tab.
func (m TaskListModel) Tab() task.Tab {
	return m.tab
}

// Tasks returns the loaded tasks.
func (m TaskListModel) Tasks() []task.Task {
	return m.tasks
}

// Cursor returns the current cursor position.
func (m TaskListModel) Cursor() int {
	return m.cursor
}

// Deleting reports whether a delete confirmation is showing.
func (m TaskListModel) Deleting() bool {
	return m.deleting
}
