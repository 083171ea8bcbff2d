package views

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/remdocs/remdocs/internal/progress"
	"github.com/remdocs/remdocs/internal/service"
	"github.com/remdocs/remdocs/internal/task"
	"github.com/remdocs/remdocs/internal/testutil"
	"github.com/remdocs/remdocs/internal/tui/msgs"
)

// failingSaves rejects every progress save.
type failingSaves struct {
	Service
}

func (f failingSaves) SaveProgress(ctx context.Context, userID, id string, in service.ProgressInput) (task.Task, error) {
	return task.Task{}, errors.New("database is locked")
}

func openEditor(t *testing.T, svc Service, id string) EditorModel {
	t.Helper()
	m := NewEditorModel(svc, testUser, id)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	for _, msg := range runCmd(m.Init()) {
		m, _ = m.Update(msg)
	}
	if m.Err() != nil {
		t.Fatalf("load failed: %v", m.Err())
	}
	return m
}

// cellPos returns the screen position of question n for questions 1..10 at
// width 80, where every cell fits on the first grid row.
func cellPos(m EditorModel, n int) (int, int) {
	const stride = 5 // two digits, two padding columns, one gap
	return editorMargin + (n-1)*stride + 1, m.GridTop()
}

func press(m EditorModel, n int) EditorModel {
	x, y := cellPos(m, n)
	m, _ = m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	return m
}

func motion(m EditorModel, n int) EditorModel {
	x, y := cellPos(m, n)
	m, _ = m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	return m
}

func release(m EditorModel) EditorModel {
	m, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})
	return m
}

func TestEditorModel_Load(t *testing.T) {
	svc := newTestService(t)
	tk := createTask(t, svc, workbookDraft("Chapter 3"))

	m := openEditor(t, svc, tk.ID)

	if m.Task().Title != "Chapter 3" {
		t.Errorf("expected task to be loaded, got %q", m.Task().Title)
	}
	if m.Focus() != FocusGrid {
		t.Errorf("expected grid focus for a task with questions, got %v", m.Focus())
	}
	if m.Cursor() != 1 {
		t.Errorf("expected cursor on first question, got %d", m.Cursor())
	}

	view := m.View()
	for _, want := range []string{"Chapter 3", "Pages done:", "Questions 1-10: 0 of 10 done"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q:\n%s", want, view)
		}
	}
}

func TestEditorModel_LoadMissingTask(t *testing.T) {
	svc := newTestService(t)
	m := NewEditorModel(svc, testUser, "missing")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	for _, msg := range runCmd(m.Init()) {
		m, _ = m.Update(msg)
	}

	if !errors.Is(m.Err(), task.ErrTaskNotFound) {
		t.Fatalf("expected not found error, got %v", m.Err())
	}
	if !strings.Contains(m.View(), "Error:") {
		t.Error("expected error in view")
	}
}

func TestEditorModel_DragSelects(t *testing.T) {
	svc := newTestService(t)
	tk := createTask(t, svc, workbookDraft("Drag"))
	m := openEditor(t, svc, tk.ID)

	m = press(m, 2)
	if !m.Gesture().Dragging() || m.Gesture().Intent() != progress.IntentAdding {
		t.Fatalf("expected select drag after pressing empty cell, got %v", m.Gesture().Intent())
	}
	m = motion(m, 3)
	m = motion(m, 4)
	m = motion(m, 4) // repeated motion over the same cell
	m = release(m)

	if m.Gesture().Dragging() {
		t.Error("expected gesture to end on release")
	}
	if got := m.CompletedSummary(); got != "2-4" {
		t.Errorf("expected 2-4 selected, got %q", got)
	}

	// Motion without a press does nothing.
	m = motion(m, 6)
	if m.Selection().Has(6) {
		t.Error("expected idle motion to leave selection unchanged")
	}
}

func TestEditorModel_DragDeselects(t *testing.T) {
	svc := newTestService(t)
	tk := createTask(t, svc, workbookDraft("Drag"))
	m := openEditor(t, svc, tk.ID)

	m = press(m, 1)
	m = motion(m, 2)
	m = motion(m, 3)
	m = motion(m, 4)
	m = release(m)

	// Starting on a completed cell clears every cell the drag enters,
	// and leaves cells that are already clear alone.
	m = press(m, 3)
	if m.Gesture().Intent() != progress.IntentRemoving {
		t.Fatalf("expected deselect intent, got %v", m.Gesture().Intent())
	}
	m = motion(m, 4)
	m = motion(m, 5)
	m = release(m)

	if got := m.CompletedSummary(); got != "1-2" {
		t.Errorf("expected 1-2 selected, got %q", got)
	}
}

func TestEditorModel_PressOnGapIgnored(t *testing.T) {
	svc := newTestService(t)
	tk := createTask(t, svc, workbookDraft("Gaps"))
	m := openEditor(t, svc, tk.ID)

	x, y := cellPos(m, 1)
	m, _ = m.Update(tea.MouseMsg{X: x + 3, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.Gesture().Dragging() || m.Selection().Len() != 0 {
		t.Error("expected press between cells to be ignored")
	}

	m, _ = m.Update(tea.MouseMsg{X: x, Y: y - 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.Gesture().Dragging() {
		t.Error("expected press above the grid to be ignored")
	}
}

func TestEditorModel_KeyboardToggle(t *testing.T) {
	svc := newTestService(t)
	tk := createTask(t, svc, workbookDraft("Keys"))
	m := openEditor(t, svc, tk.ID)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if m.Cursor() != 2 || !m.Selection().Has(2) {
		t.Fatalf("expected question 2 toggled on, cursor=%d selection=%q", m.Cursor(), m.CompletedSummary())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if m.Selection().Has(2) {
		t.Error("expected second toggle to clear question 2")
	}
}

func TestEditorModel_PreviewUsesUnsavedState(t *testing.T) {
	svc := newTestService(t)
	tk := createTask(t, svc, workbookDraft("Preview"))
	m := openEditor(t, svc, tk.ID)

	for n := 1; n <= 5; n++ {
		m = press(m, n)
		m = release(m)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.Focus() != FocusCount {
		t.Fatalf("expected tab to focus the page counter, got %v", m.Focus())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = m.Update(keyRunes("8"))
	m, _ = m.Update(keyRunes("x")) // ignored

	// 80% of pages and 50% of questions: the lower one wins.
	got := m.Preview()
	if got.Progress != 50 || got.Status != progress.StatusDoing {
		t.Errorf("Preview() = %+v, want 50 doing", got)
	}
}

func TestEditorModel_Save(t *testing.T) {
	svc := newTestService(t)
	tk := createTask(t, svc, workbookDraft("Save me"))
	m := openEditor(t, svc, tk.ID)

	for n := 1; n <= 10; n++ {
		m = press(m, n)
		m = release(m)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = m.Update(keyRunes("10"))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.Saving() {
		t.Fatal("expected saving state after ctrl+s")
	}
	for _, msg := range runCmd(cmd) {
		m, _ = m.Update(msg)
	}

	if m.Saving() || m.Err() != nil {
		t.Fatalf("expected save to finish cleanly, err=%v", m.Err())
	}
	if m.Task().Progress != 100 || m.Task().Status != task.StatusDone {
		t.Errorf("expected saved task at 100%% done, got %d%% %s", m.Task().Progress, m.Task().Status)
	}
	if !strings.Contains(m.View(), "Saved: 100% done") {
		t.Errorf("expected saved message in view:\n%s", m.View())
	}

	stored, err := svc.GetTask(context.Background(), testUser, tk.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if stored.CompletedPages != 10 || stored.CompletedQuestions.Len() != 10 {
		t.Errorf("expected stored completion, got pages=%d questions=%d", stored.CompletedPages, stored.CompletedQuestions.Len())
	}
}

func TestEditorModel_SaveFailureKeepsEdits(t *testing.T) {
	svc := newTestService(t)
	tk := createTask(t, svc, workbookDraft("Flaky"))
	m := openEditor(t, failingSaves{Service: svc}, tk.ID)

	m = press(m, 1)
	m = motion(m, 2)
	m = release(m)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	for _, msg := range runCmd(cmd) {
		m, _ = m.Update(msg)
	}

	if m.Err() == nil {
		t.Fatal("expected save error")
	}
	if m.Saving() {
		t.Error("expected saving to stop after failure")
	}
	if got := m.CompletedSummary(); got != "1-2" {
		t.Errorf("expected unsaved edits to survive, got %q", got)
	}
	if !strings.Contains(m.View(), "Save failed: database is locked") {
		t.Errorf("expected failure in view:\n%s", m.View())
	}
}

func TestEditorModel_EscapeReturnsToList(t *testing.T) {
	svc := newTestService(t)
	tk := createTask(t, svc, workbookDraft("Back"))
	m := openEditor(t, svc, tk.ID)

	m = press(m, 1)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Gesture().Dragging() {
		t.Error("expected escape to end the drag")
	}
	got := runCmd(cmd)
	if len(got) != 1 {
		t.Fatalf("expected one message, got %d", len(got))
	}
	if _, ok := got[0].(msgs.GoToListMsg); !ok {
		t.Errorf("expected GoToListMsg, got %T", got[0])
	}
}

func TestEditorModel_VocabDeck(t *testing.T) {
	svc := newTestService(t)
	tk := createTask(t, svc, task.Draft{
		Title:  "Spanish verbs",
		Type:   task.TypeVocabDeck,
		Ranges: task.Ranges{VocabCount: testutil.Int(40)},
	})
	m := openEditor(t, svc, tk.ID)

	if m.Focus() != FocusCount {
		t.Errorf("expected counter focus for vocab deck, got %v", m.Focus())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = m.Update(keyRunes("10"))

	if got := m.Preview(); got.Progress != 25 {
		t.Errorf("expected 25%% preview, got %d", got.Progress)
	}
	if !strings.Contains(m.View(), "Words learned:") {
		t.Error("expected words counter in view")
	}

	// Mouse input has no grid to act on.
	m, _ = m.Update(tea.MouseMsg{X: 3, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.Gesture().Dragging() {
		t.Error("expected no drag on a vocab deck")
	}
}
