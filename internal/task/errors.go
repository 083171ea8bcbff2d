package task

import (
	"errors"
	"fmt"
)

// Task errors
var (
	ErrTaskAlreadyExists = errors.New("task already exists")
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskInvalidArgs   = errors.New("task invalid args")
)

// Profile errors
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrForbidden       = errors.New("profile is private")
)

// invalidArgs wraps ErrTaskInvalidArgs with a specific reason.
func invalidArgs(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTaskInvalidArgs, fmt.Sprintf(format, args...))
}
