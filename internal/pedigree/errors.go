package pedigree

import (
	"errors"
	"fmt"

	"github.com/wolfeidau/traba/internal/store"
)

// Error kinds returned by Service. Callers test them with errors.Is.
var (
	// ErrValidation covers missing required fields, out of range generations,
	// unknown role keywords and rejected parent edges.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned when a referenced record belongs to another
	// tenant or when there is no tenant context at all.
	ErrUnauthorized = errors.New("not authorized")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIntegrity is returned when a write would violate a uniqueness rule.
	ErrIntegrity = errors.New("integrity violation")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// translate maps store sentinels onto the service error kinds.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrIntegrity):
		return err
	case errors.Is(err, store.ErrIndividualNotFound),
		errors.Is(err, store.ErrInvalidReference):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, store.ErrIndividualAlreadyExists),
		errors.Is(err, store.ErrCrossAlreadyExists):
		return fmt.Errorf("%w: %w", ErrIntegrity, err)
	}
	return err
}
