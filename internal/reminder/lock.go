package reminder

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

const lockFileName = "remind.lock"

// Lock is a pid file that keeps a single reminder scheduler running per
// data directory.
type Lock struct {
	path string
}

// NewLock creates a lock manager for the given data directory.
func NewLock(dataDir string) *Lock {
	return &Lock{
		path: filepath.Join(dataDir, lockFileName),
	}
}

// Acquire takes the lock or reports the pid holding it.
// Locks left by dead processes are removed and retried once.
func (l *Lock) Acquire() error {
	err := l.create()
	if err == nil {
		return nil
	}
	if !os.IsExist(err) {
		return fmt.Errorf("failed to create lock file: %w", err)
	}

	held, pid, err := l.holder()
	if err != nil {
		return err
	}
	if held {
		return fmt.Errorf("reminder scheduler is already running (PID %d)", pid)
	}

	if err := l.create(); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("lock acquired by another process during retry")
		}
		return fmt.Errorf("failed to create lock file on retry: %w", err)
	}
	return nil
}

// create writes our pid with O_EXCL.
func (l *Lock) create() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, writeErr := fmt.Fprintf(f, "%d", os.Getpid())
	f.Close()
	if writeErr != nil {
		os.Remove(l.path)
		return fmt.Errorf("failed to write lock file: %w", writeErr)
	}
	return nil
}

// Release removes the lock file.
// Returns nil if the lock file doesn't exist (idempotent).
func (l *Lock) Release() error {
	err := os.Remove(l.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// IsLocked reports whether the lock is currently held by a live process.
func (l *Lock) IsLocked() (bool, error) {
	held, _, err := l.holder()
	return held, err
}

// holder inspects an existing lock file. Stale or unreadable pids are
// removed so the caller can retry.
func (l *Lock) holder() (bool, int, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("failed to read existing lock file: %w", err)
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		// Another process created the file and has not written its pid yet.
		return true, 0, nil
	}
	pid, parseErr := strconv.Atoi(content)
	if parseErr == nil && processExists(pid) {
		return true, pid, nil
	}

	if removeErr := os.Remove(l.path); removeErr != nil && !os.IsNotExist(removeErr) {
		return false, 0, fmt.Errorf("failed to remove stale lock file: %w", removeErr)
	}
	return false, 0, nil
}

// processExists checks if a process with the given PID is running.
// Uses kill with signal 0, which checks for process existence without sending a signal.
func processExists(pid int) bool {
	if pid <= 0 {
		return false
	}
	if pid == os.Getpid() {
		return true
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
