// Package activity records task lifecycle events as JSON Lines.
package activity

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Event type constants for activity logging.
const (
	EventTaskCreated   = "task_created"
	EventTaskEdited    = "task_edited"
	EventProgressSaved = "progress_saved"
	EventTaskDeleted   = "task_deleted"
	EventTagAdded      = "tag_added"
	EventTagRemoved    = "tag_removed"
	EventProfileSaved  = "profile_saved"
	EventReminderSent  = "reminder_sent"
	EventTasksImported = "tasks_imported"
)

// Entry represents a single activity log entry.
type Entry struct {
	Timestamp time.Time              `json:"timestamp"`
	Event     string                 `json:"event"`
	UserID    string                 `json:"user_id,omitempty"`
	TaskID    string                 `json:"task_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Logger appends activity entries to a JSON Lines file.
type Logger struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewLogger creates a logger writing to path.
func NewLogger(path string) *Logger {
	return &Logger{path: path, now: time.Now}
}

// Path returns the log file location.
func (l *Logger) Path() string {
	return l.path
}

// Log appends an entry to the log file.
func (l *Logger) Log(event, userID, taskID string, data map[string]interface{}) error {
	entry := Entry{
		Timestamp: l.now(),
		Event:     event,
		UserID:    userID,
		TaskID:    taskID,
		Data:      data,
	}

	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	jsonBytes = append(jsonBytes, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(jsonBytes)
	return err
}

// TaskCreated logs a task_created event.
func (l *Logger) TaskCreated(userID, taskID, title string) error {
	return l.Log(EventTaskCreated, userID, taskID, map[string]interface{}{
		"title": title,
	})
}

// ProgressSaved logs a progress_saved event.
func (l *Logger) ProgressSaved(userID, taskID string, progress int, status string) error {
	return l.Log(EventProgressSaved, userID, taskID, map[string]interface{}{
		"progress": progress,
		"status":   status,
	})
}

// ReminderSent logs a reminder_sent event.
func (l *Logger) ReminderSent(userID, taskID string) error {
	return l.Log(EventReminderSent, userID, taskID, nil)
}

// Read returns all entries in the log, oldest first. A missing file yields
// no entries. Lines that fail to decode are skipped.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open activity log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activity log: %w", err)
	}
	return entries, nil
}

// Filter returns the entries for one user, newest last, keeping at most limit
// of the most recent. A limit of 0 keeps all.
func Filter(entries []Entry, userID string, limit int) []Entry {
	var out []Entry
	for _, e := range entries {
		if userID == "" || e.UserID == userID {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
