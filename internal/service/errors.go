package service

import (
	"fmt"

	"taskboard/internal/repository"
)

// Lookup failures reuse the store's sentinels so callers can errors.Is on
// either layer.
var (
	ErrTaskNotFound    = repository.ErrTaskNotFound
	ErrCommentNotFound = repository.ErrCommentNotFound
	ErrUserNotFound    = repository.ErrUserNotFound
)

// ValidationError is a field-level rejection. It is surfaced to the requester
// for re-rendering; no broadcast happens for invalid writes.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}
