// Package errs defines the error taxonomy shared by the data-access
// layer. Callers branch with errors.Is instead of inspecting logs.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a required lookup or update that matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrMissingConfig marks absent required configuration, such as the
	// store connection string.
	ErrMissingConfig = errors.New("missing configuration")

	// ErrInvalidInput marks a request that failed validation before
	// reaching the store.
	ErrInvalidInput = errors.New("invalid input")
)

// NotFound wraps ErrNotFound with the name of the missing entity.
func NotFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

// MissingConfig wraps ErrMissingConfig with the name of the absent key.
func MissingConfig(key string) error {
	return fmt.Errorf("%s: %w", key, ErrMissingConfig)
}

// InvalidInput wraps ErrInvalidInput with a reason.
func InvalidInput(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrInvalidInput)
}
