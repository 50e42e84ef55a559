package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when an optimistic concurrency check fails,
	// i.e. the entity was modified since it was read.
	ErrConflict = errors.New("concurrent modification conflict")
)
