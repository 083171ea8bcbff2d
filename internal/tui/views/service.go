package views

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/remdocs/remdocs/internal/service"
	"github.com/remdocs/remdocs/internal/task"
	"github.com/remdocs/remdocs/internal/tui/msgs"
)

// Service is what the views need from the application layer.
// *service.Service satisfies it.
type Service interface {
	ListTasks(ctx context.Context, userID string, filter task.ListFilter) ([]task.Task, error)
	GetTask(ctx context.Context, userID, id string) (task.Task, error)
	SaveProgress(ctx context.Context, userID, id string, in service.ProgressInput) (task.Task, error)
	DeleteTask(ctx context.Context, userID, id string) error
	GetPublicProfile(ctx context.Context, viewerID, ownerID string) (service.PublicProfile, error)
	UpdateProfile(ctx context.Context, userID string, patch task.ProfilePatch) (task.Profile, error)
}

const requestTimeout = 10 * time.Second

func loadTasksCmd(svc Service, userID string, tab task.Tab) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tasks, err := svc.ListTasks(ctx, userID, task.ListFilter{Tab: tab, Now: time.Now()})
		return msgs.TasksLoadedMsg{Tab: tab, Tasks: tasks, Err: err}
	}
}

func loadTaskCmd(svc Service, userID, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		t, err := svc.GetTask(ctx, userID, id)
		return msgs.TaskLoadedMsg{TaskID: id, Task: t, Err: err}
	}
}

func saveProgressCmd(svc Service, userID, id string, in service.ProgressInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		t, err := svc.SaveProgress(ctx, userID, id, in)
		if err != nil {
			return msgs.SaveFailedMsg{TaskID: id, Err: err}
		}
		return msgs.TaskSavedMsg{TaskID: id, Task: t}
	}
}

func deleteTaskCmd(svc Service, userID, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return msgs.TaskDeletedMsg{TaskID: id, Err: svc.DeleteTask(ctx, userID, id)}
	}
}

func loadProfileCmd(svc Service, userID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		pp, err := svc.GetPublicProfile(ctx, userID, userID)
		return msgs.ProfileLoadedMsg{Profile: pp.Profile, Stats: pp.Stats, Err: err}
	}
}

func saveProfileCmd(svc Service, userID string, patch task.ProfilePatch) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		p, err := svc.UpdateProfile(ctx, userID, patch)
		return msgs.ProfileSavedMsg{Profile: p, Err: err}
	}
}
