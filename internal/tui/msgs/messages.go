// Package msgs defines shared message types for TUI view transitions.
package msgs

import (
	"github.com/remdocs/remdocs/internal/task"
)

// View transition messages

// GoToListMsg signals transition to the task list.
type GoToListMsg struct{}

// OpenEditorMsg opens the progress editor for a task.
type OpenEditorMsg struct {
	TaskID string
}

// GoToProfileMsg signals transition to the profile view.
type GoToProfileMsg struct{}

// Data messages

// TasksLoadedMsg carries the result of a task list query.
type TasksLoadedMsg struct {
	Tab   task.Tab
	Tasks []task.Task
	Err   error
}

// TaskLoadedMsg carries a single task fetched for the editor.
type TaskLoadedMsg struct {
	TaskID string
	Task   task.Task
	Err    error
}

// TaskSavedMsg is sent when a progress save succeeds.
type TaskSavedMsg struct {
	TaskID string
	Task   task.Task
}

// SaveFailedMsg is sent when a progress save fails. The editor keeps its
// unsaved state.
type SaveFailedMsg struct {
	TaskID string
	Err    error
}

// TaskDeletedMsg is sent after a task is removed.
type TaskDeletedMsg struct {
	TaskID string
	Err    error
}

// ProfileLoadedMsg carries the profile and its statistics.
type ProfileLoadedMsg struct {
	Profile task.Profile
	Stats   task.Stats
	Err     error
}

// ProfileSavedMsg is sent after a profile update.
type ProfileSavedMsg struct {
	Profile task.Profile
	Err     error
}
