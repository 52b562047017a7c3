package storage

import "errors"

var (
	// ErrNotFound is returned by update/delete operations that reference an
	// entity id absent from its collection.
	ErrNotFound = errors.New("not found")

	// ErrInvalidFormat is returned when imported data fails shape validation.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrStorage wraps failures of the underlying backend. A failed save is
	// reported to the caller but must never take the process down.
	ErrStorage = errors.New("storage failure")
)
