package repository

import "errors"

// Common repository errors
var (
	// ErrInstanceNotFound is returned when a task instance is not found
	ErrInstanceNotFound = errors.New("task instance not found")
)
