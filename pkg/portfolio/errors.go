package portfolio

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrValidation indicates missing or malformed input; storage is never
	// touched when it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrCategoryNotFound indicates an unknown category or a missing category file
	ErrCategoryNotFound = errors.New("category not found")

	// ErrItemNotFound indicates an id/title lookup miss
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidIndex indicates a gallery index out of bounds
	ErrInvalidIndex = errors.New("gallery index out of bounds")

	// ErrUploadFailed indicates an asset-host transport or auth error
	ErrUploadFailed = errors.New("upload failed")

	// ErrStorage indicates a file read/write failure distinct from "file absent"
	ErrStorage = errors.New("storage failure")
)

// EntryError wraps a failure of one operation against one entry.
type EntryError struct {
	Category string
	ID       string
	Op       string
	Err      error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s failed for %s/%s: %v", e.Op, e.Category, e.ID, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
