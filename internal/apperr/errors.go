// Package apperr defines sentinel errors shared across Munin services.
package apperr

import "errors"

var (
	ErrNoteNotFound = errors.New("Daily note not found")
	ErrTodoNotFound = errors.New("TODO not found")
)
