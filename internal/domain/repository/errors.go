package repository

import "errors"

var (
	// ErrNotFound is returned when no row matches the requested id or key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned on a unique constraint violation, e.g. email.
	ErrDuplicateKey = errors.New("duplicate key")
)
