package reminder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/remdocs/remdocs/internal/task"
)

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, t task.Task) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, t task.Task) error {
	return f(ctx, t)
}

// WriterNotifier prints one line per reminder.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier creates a notifier writing to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify implements Notifier.
func (n *WriterNotifier) Notify(ctx context.Context, t task.Task) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintln(n.w, FormatReminder(t))
	return err
}

// LogNotifier emits reminders as structured log records.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier creates a notifier logging to log.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, t task.Task) error {
	n.log.InfoContext(ctx, "task reminder",
		"task_id", t.ID,
		"user_id", t.UserID,
		"title", t.Title,
		"progress", t.Progress,
		"due", t.DueDate.Format("2006-01-02"))
	return nil
}

// FormatReminder renders the reminder text for a task.
func FormatReminder(t task.Task) string {
	return fmt.Sprintf("Reminder: %q is %d%% done, due %s", t.Title, t.Progress, t.DueDate.Local().Format("2006-01-02 15:04"))
}
