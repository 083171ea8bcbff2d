package views

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/remdocs/remdocs/internal/logging"
	"github.com/remdocs/remdocs/internal/service"
	"github.com/remdocs/remdocs/internal/task"
	"github.com/remdocs/remdocs/internal/testutil"
)

const testUser = "alice"

func newTestService(t *testing.T) *service.Service {
	t.Helper()
	return service.NewService(testutil.NewStore(t), logging.Discard(), nil)
}

func createTask(t *testing.T, svc *service.Service, d task.Draft) task.Task {
	t.Helper()
	if d.DueDate.IsZero() {
		d.DueDate = time.Now().Add(7 * 24 * time.Hour)
	}
	created, err := svc.CreateTask(context.Background(), testUser, d)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	return created
}

func workbookDraft(title string) task.Draft {
	return task.Draft{
		Title: title,
		Type:  task.TypeProblemSet,
		Ranges: task.Ranges{
			StartPage:     testutil.Int(1),
			EndPage:       testutil.Int(10),
			StartQuestion: testutil.Int(1),
			EndQuestion:   testutil.Int(10),
		},
	}
}

// runCmd executes cmd and any batch it expands to, returning the messages
// produced in order.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
