package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/remdocs/remdocs/internal/progress"
	"github.com/remdocs/remdocs/internal/service"
	"github.com/remdocs/remdocs/internal/task"
	"github.com/remdocs/remdocs/internal/tui/components"
	"github.com/remdocs/remdocs/internal/tui/msgs"
	"github.com/remdocs/remdocs/internal/tui/styles"
	"github.com/remdocs/remdocs/internal/util"
)

// editorMargin is the left indent of every editor line.
const editorMargin = 2

// EditorFocus selects which control receives keys.
type EditorFocus int

const (
	FocusCount EditorFocus = iota // page or word counter
	FocusGrid                     // question grid
)

// EditorModel edits the completion state of one task. Changes stay local
// until saved with ctrl+s.
type EditorModel struct {
	svc    Service
	userID string

	task      task.Task
	loaded    bool
	count     textinput.Model
	selection progress.QuestionSet
	gesture   progress.Gesture
	cursor    int
	focus     EditorFocus

	saving  bool
	spinner spinner.Model
	err     error
	flash   string

	width  int
	height int
}

// NewEditorModel creates an editor that loads taskID on Init.
func NewEditorModel(svc Service, userID, taskID string) EditorModel {
	ti := textinput.New()
	ti.Placeholder = "0"
	ti.CharLimit = 6
	ti.Width = 8

	s := spinner.New()
	s.Spinner = spinner.Dot

	return EditorModel{
		svc:     svc,
		userID:  userID,
		task:    task.Task{ID: taskID},
		count:   ti,
		spinner: s,
	}
}

// Init implements tea.Model.
func (m EditorModel) Init() tea.Cmd {
	return loadTaskCmd(m.svc, m.userID, m.task.ID)
}

// setTask replaces the editor state with t.
func (m *EditorModel) setTask(t task.Task) {
	m.task = t
	m.loaded = true
	m.selection = t.CompletedQuestions
	m.gesture = m.gesture.Release()

	switch t.Type {
	case task.TypeVocabDeck:
		m.count.SetValue(fmt.Sprintf("%d", t.CompletedVocab))
	default:
		m.count.SetValue(fmt.Sprintf("%d", t.CompletedPages))
	}
	m.count.CursorEnd()

	if lo, hi, ok := t.QuestionRange(); ok && hi >= lo {
		if m.cursor < lo || m.cursor > hi {
			m.cursor = lo
		}
		m.focus = FocusGrid
		m.count.Blur()
	} else {
		m.focus = FocusCount
		m.count.Focus()
	}
	m.setFocus(m.focus)
}

// Update implements tea.Model.
func (m EditorModel) Update(msg tea.Msg) (EditorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case msgs.TaskLoadedMsg:
		if msg.TaskID != m.task.ID {
			return m, nil
		}
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.setTask(msg.Task)
		return m, nil

	case msgs.TaskSavedMsg:
		if msg.TaskID != m.task.ID {
			return m, nil
		}
		m.saving = false
		m.err = nil
		m.flash = fmt.Sprintf("Saved: %d%% %s", msg.Task.Progress, msg.Task.Status)
		focus := m.focus
		m.setTask(msg.Task)
		m.setFocus(focus)
		return m, nil

	case msgs.SaveFailedMsg:
		if msg.TaskID != m.task.ID {
			return m, nil
		}
		m.saving = false
		m.err = msg.Err
		m.flash = ""
		return m, nil

	case spinner.TickMsg:
		if m.saving {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == FocusCount {
		var cmd tea.Cmd
		m.count, cmd = m.count.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m EditorModel) handleKey(msg tea.KeyMsg) (EditorModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.gesture = m.gesture.Release()
		return m, func() tea.Msg { return msgs.GoToListMsg{} }
	case "ctrl+s":
		return m.save()
	case "tab", "shift+tab":
		if m.hasGrid() && m.hasCounter() {
			if m.focus == FocusGrid {
				m.setFocus(FocusCount)
			} else {
				m.setFocus(FocusGrid)
			}
		}
		return m, nil
	}

	if !m.loaded {
		return m, nil
	}

	if m.focus == FocusGrid {
		grid := m.grid()
		switch msg.String() {
		case "left", "h":
			m.cursor = grid.Move(m.cursor, -1, 0)
		case "right", "l":
			m.cursor = grid.Move(m.cursor, 1, 0)
		case "up", "k":
			m.cursor = grid.Move(m.cursor, 0, -1)
		case "down", "j":
			m.cursor = grid.Move(m.cursor, 0, 1)
		case " ", "x":
			m.selection, _ = progress.Toggle(m.selection, m.cursor)
			m.flash = ""
		}
		return m, nil
	}

	if msg.Type == tea.KeyRunes && !digitsOnly(msg.Runes) {
		return m, nil
	}
	var cmd tea.Cmd
	m.count, cmd = m.count.Update(msg)
	m.flash = ""
	return m, cmd
}

func digitsOnly(rs []rune) bool {
	for _, r := range rs {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// handleMouse drives the drag gesture: a left press toggles the cell under
// the pointer and fixes the intent, motion applies it to each cell entered,
// and any release ends it.
func (m EditorModel) handleMouse(msg tea.MouseMsg) EditorModel {
	if !m.loaded || !m.hasGrid() {
		return m
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		n, ok := m.cellAt(msg.X, msg.Y)
		if !ok {
			return m
		}
		m.gesture, m.selection = m.gesture.Press(m.selection, n)
		m.cursor = n
		m.setFocus(FocusGrid)
		m.flash = ""

	case tea.MouseActionMotion:
		if !m.gesture.Dragging() {
			return m
		}
		if n, ok := m.cellAt(msg.X, msg.Y); ok {
			m.gesture, m.selection = m.gesture.Enter(m.selection, n)
			m.cursor = n
		}

	case tea.MouseActionRelease:
		m.gesture = m.gesture.Release()
	}
	return m
}

func (m EditorModel) save() (EditorModel, tea.Cmd) {
	if !m.loaded || m.saving {
		return m, nil
	}
	m.gesture = m.gesture.Release()
	m.saving = true
	m.err = nil
	m.flash = ""
	return m, tea.Batch(m.spinner.Tick, saveProgressCmd(m.svc, m.userID, m.task.ID, m.input()))
}

// input collects the unsaved completion state.
func (m EditorModel) input() service.ProgressInput {
	count := task.ParseCount(m.count.Value())
	in := service.ProgressInput{CompletedQuestions: m.selection}
	if m.task.Type == task.TypeVocabDeck {
		in.CompletedVocab = count
	} else {
		in.CompletedPages = count
	}
	return in
}

// Preview evaluates the unsaved state with the progress engine.
func (m EditorModel) Preview() progress.Result {
	in := m.task.Inputs()
	edit := m.input()
	in.CompletedPages = edit.CompletedPages
	in.CompletedVocab = edit.CompletedVocab
	in.CompletedQuestions = edit.CompletedQuestions
	return progress.Evaluate(in)
}

func (m *EditorModel) setFocus(f EditorFocus) {
	if f == FocusGrid && !m.hasGrid() {
		f = FocusCount
	}
	if f == FocusCount && !m.hasCounter() && m.hasGrid() {
		f = FocusGrid
	}
	m.focus = f
	if f == FocusCount {
		m.count.Focus()
	} else {
		m.count.Blur()
	}
}

func (m EditorModel) hasGrid() bool {
	if m.task.Type != task.TypeProblemSet {
		return false
	}
	lo, hi, ok := m.task.QuestionRange()
	return ok && hi >= lo && hi-lo < task.MaxQuestionSpan
}

// hasCounter reports whether the task has a page or word count to edit.
func (m EditorModel) hasCounter() bool {
	return m.task.Type == task.TypeVocabDeck || m.task.TotalPages() > 0 || !m.hasGrid()
}

func (m EditorModel) grid() components.QuestionGrid {
	lo, hi, _ := m.task.QuestionRange()
	return components.NewQuestionGrid(lo, hi, max(m.width-2*editorMargin, 10))
}

// cellAt converts screen coordinates to a question number.
func (m EditorModel) cellAt(x, y int) (int, bool) {
	return m.grid().CellAt(x-editorMargin, y-m.GridTop())
}

// GridTop is the screen row of the first grid line.
func (m EditorModel) GridTop() int {
	return lipgloss.Height(m.renderHeader())
}

// renderHeader renders everything above the grid, ending with the grid label.
func (m EditorModel) renderHeader() string {
	t := m.task
	var lines []string
	lines = append(lines, styles.TitleStyle.UnsetMarginBottom().Render(t.Title))
	lines = append(lines, styles.SubtleStyle.Render(fmt.Sprintf("%s • due %s • %s priority",
		t.Type, t.DueDate.Local().Format("2006-01-02 15:04"), t.Priority)))
	lines = append(lines, "")

	preview := m.Preview()
	lines = append(lines, fmt.Sprintf("%s  %s", components.NewProgress(preview.Progress, 20).View(), preview.Status))
	lines = append(lines, "")

	switch {
	case t.Type == task.TypeVocabDeck:
		lines = append(lines, fmt.Sprintf("Words learned: %s of %s", m.count.View(), formatOptional(t.VocabCount)))
	case m.hasCounter():
		lines = append(lines, fmt.Sprintf("Pages done:    %s of %d", m.count.View(), t.TotalPages()))
	}

	if m.hasGrid() {
		lo, hi, _ := t.QuestionRange()
		done := m.selection.CountInRange(lo, hi)
		label := fmt.Sprintf("Questions %d-%d: %d of %d done", lo, hi, done, hi-lo+1)
		if t.SubQuestions != nil && *t.SubQuestions > 0 {
			label += fmt.Sprintf(" (%d sub-questions each)", *t.SubQuestions)
		}
		if m.hasCounter() {
			lines = append(lines, "")
		}
		lines = append(lines, label)
	}
	return indent(strings.Join(lines, "\n"))
}

// View implements tea.Model.
func (m EditorModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if !m.loaded {
		if m.err != nil {
			return indent(styles.ErrorStyle.Render("Error: "+m.err.Error())) + "\n\n" +
				components.NewStatusBar().Render(m.width, []string{"Esc Back"})
		}
		return indent(styles.SubtleStyle.Render("Loading task..."))
	}

	var b strings.Builder
	header := m.renderHeader()
	b.WriteString(header)
	used := lipgloss.Height(header)

	if m.hasGrid() {
		grid := m.grid().View(m.selection, m.cursor, m.focus == FocusGrid)
		b.WriteString("\n")
		b.WriteString(indent(grid))
		used += lipgloss.Height(grid)
	}

	b.WriteString("\n\n")
	used++
	if line := m.renderMessage(); line != "" {
		b.WriteString(indent(line))
	}
	used++

	if pad := m.height - used - 1; pad > 0 {
		b.WriteString(strings.Repeat("\n", pad))
	}
	b.WriteString("\n")

	items := []string{"Ctrl+S Save", "Esc Back"}
	if m.hasGrid() {
		items = []string{"Click/drag Mark", "←↑↓→ Move", "Space Toggle", "Tab Switch", "Ctrl+S Save", "Esc Back"}
	}
	b.WriteString(components.NewStatusBar().Render(m.width, items))
	return b.String()
}

func (m EditorModel) renderMessage() string {
	switch {
	case m.saving:
		return m.spinner.View() + " Saving..."
	case m.err != nil:
		return styles.ErrorStyle.Render("Save failed: " + m.err.Error())
	case m.flash != "":
		return styles.SuccessStyle.Render(m.flash)
	}
	return ""
}

func indent(s string) string {
	pad := strings.Repeat(" ", editorMargin)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

func formatOptional(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}

// SetSize updates the model dimensions.
func (m *EditorModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Task returns the task as last loaded or saved.
func (m EditorModel) Task() task.Task {
	return m.task
}

// Selection returns the unsaved question selection.
func (m EditorModel) Selection() progress.QuestionSet {
	return m.selection
}

// Gesture returns the drag gesture state.
func (m EditorModel) Gesture() progress.Gesture {
	return m.gesture
}

// Focus returns which control has keyboard focus.
func (m EditorModel) Focus() EditorFocus {
	return m.focus
}

// Cursor returns the question under the grid cursor.
func (m EditorModel) Cursor() int {
	return m.cursor
}

// Saving reports whether a save is in flight.
func (m EditorModel) Saving() bool {
	return m.saving
}

// Err returns the last load or save error.
func (m EditorModel) Err() error {
	return m.err
}

// CompletedSummary is the selection as a compact list like "1-3,5".
func (m EditorModel) CompletedSummary() string {
	return util.FormatQuestionList(m.selection.Sorted())
}
