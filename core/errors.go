package core

import (
	"errors"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// ErrInvalidOperation marks a caller bug, e.g. dispatching a command with no
// target relations. It must never reach an end user.
var ErrInvalidOperation = errors.New("invalid operation")

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
