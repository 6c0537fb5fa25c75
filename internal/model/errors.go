package model

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("not found")

	// ErrValidation wraps input that fails a field constraint.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when a write collides with an existing key.
	ErrConflict = errors.New("conflict")

	// ErrStoreUnavailable is returned when the primary store or the cache
	// cannot be reached at all.
	ErrStoreUnavailable = errors.New("store unavailable")
)
