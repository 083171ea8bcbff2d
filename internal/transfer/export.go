package transfer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/remdocs/remdocs/internal/task"
	"github.com/remdocs/remdocs/internal/util"
)

// Document is the JSON layout written by Export.
type Document struct {
	ExportedAt time.Time   `json:"exportedAt"`
	UserID     string      `json:"userId"`
	Tasks      []task.Task `json:"tasks"`
}

// DefaultExportName is the file name used when none is given.
func DefaultExportName(userID string, now time.Time) string {
	user := util.Slug(userID)
	if user == "" {
		user = "tasks"
	}
	return fmt.Sprintf("remdocs-%s-%s.json", user, now.Format("2006-01-02"))
}

// Export atomically writes tasks to path as indented JSON.
func Export(path, userID string, tasks []task.Task, now time.Time) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	doc := Document{ExportedAt: now.UTC(), UserID: userID, Tasks: tasks}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	tmpPath := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// ReadExport loads a file written by Export.
func ReadExport(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse export: %w", err)
	}
	return &doc, nil
}
