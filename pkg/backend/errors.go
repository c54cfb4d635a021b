package backend

import (
	"errors"
	"fmt"
)

// Sentinel errors for container operations.
var (
	// ErrNotFound indicates the requested blob does not exist.
	ErrNotFound = errors.New("blob not found")

	// ErrAlreadyExists indicates the container already exists.
	// Ensure callers treat this as success.
	ErrAlreadyExists = errors.New("container already exists")

	// ErrForbidden indicates the backend denied access.
	ErrForbidden = errors.New("access forbidden")
)

// Error wraps backend-specific failures with operation context.
//
// Status carries the HTTP status code of the backend response when one is
// discoverable, zero otherwise. The translation layer above relies on it to
// keep diagnostic detail in user-facing errors.
type Error struct {
	// Op is the operation that failed (e.g., "ListPage", "Probe").
	Op string

	// Kind is the backend kind (e.g., "s3").
	Kind Kind

	// Container is the container name, if applicable.
	Container string

	// Key is the blob key, if applicable.
	Key string

	// Status is the HTTP status of the backend response, 0 if unknown.
	Status int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s: %s/%s: %v", e.Kind, e.Op, e.Container, e.Key, e.Err)
	}
	if e.Container != "" {
		return fmt.Sprintf("%s %s: %s: %v", e.Kind, e.Op, e.Container, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error indicates a blob was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists returns true if the error indicates the container already exists.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsForbidden returns true if the error indicates the backend denied access.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// StatusOf returns the HTTP status carried by err, or 0 if none is
// discoverable anywhere in its chain.
func StatusOf(err error) int {
	var be *Error
	if errors.As(err, &be) {
		return be.Status
	}
	return 0
}
