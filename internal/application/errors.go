package application

import (
	"errors"
	"fmt"

	repo "github.com/baltotest/freight-api/internal/domain/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
	// ErrConflict rejects a delete that would orphan referencing records.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable is returned when an optional collaborator is not configured.
	ErrUnavailable = errors.New("unavailable")
)

func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
}

// lookupErr translates a repository miss into ErrNotFound and passes
// anything else through untouched.
func lookupErr(err error, what, id string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return notFound(what, id)
	}
	return err
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}
