// Package testutil provides testing utilities for the remdocs project.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/remdocs/remdocs/internal/logging"
	"github.com/remdocs/remdocs/internal/store"
)

// SetupTestDir creates a temp directory, resolves symlinks (for macOS),
// changes to it, and registers cleanup to restore the original working directory.
// Returns the resolved temp directory path.
func SetupTestDir(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	// Resolve symlinks for macOS (/var -> /private/var)
	if resolved, err := filepath.EvalSymlinks(tmpDir); err != nil {
		t.Logf("warning: could not resolve symlinks for temp dir: %v", err)
	} else {
		tmpDir = resolved
	}

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change to temp dir: %v", err)
	}

	t.Cleanup(func() {
		os.Chdir(originalWd)
	})

	return tmpDir
}

// NewStore opens a SQLite store in a temp directory and closes it on cleanup.
func NewStore(t *testing.T) *store.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "remdocs.db")
	db, err := store.Open(logging.Discard(), "sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}
