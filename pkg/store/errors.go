package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/duotier/duostore/pkg/backend"
)

// Code classifies a storage error.
type Code string

const (
	// CodeBadArgument means the caller supplied invalid or ambiguous
	// credentials or parameters. Not retryable; fix the call.
	CodeBadArgument Code = "BAD_ARGUMENT"

	// CodeForbidden means the backend denied access. Not retryable
	// without new credentials.
	CodeForbidden Code = "FORBIDDEN"

	// CodeInternal means a backend or transport failure. May be
	// retryable by caller policy; carries diagnostic detail such as an
	// HTTP status code when one was available.
	CodeInternal Code = "INTERNAL"
)

// StorageError is the only error kind that crosses the package boundary.
// Raw backend errors never escape; they are retained on Err for errors.Is/As
// inspection and log output.
type StorageError struct {
	// Code classifies the failure.
	Code Code

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsBadArgument returns true if the error is a BadArgument storage error.
func IsBadArgument(err error) bool {
	return codeOf(err) == CodeBadArgument
}

// IsForbidden returns true if the error is a Forbidden storage error.
func IsForbidden(err error) bool {
	return codeOf(err) == CodeForbidden
}

// IsInternal returns true if the error is an Internal storage error.
func IsInternal(err error) bool {
	return codeOf(err) == CodeInternal
}

func codeOf(err error) Code {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// translate maps a raw failure onto the storage error taxonomy.
//
// Context cancellation is the caller's own doing and passes through
// untranslated. Everything else is wrapped: credential schema violations
// become BadArgument, a 403-bearing backend response becomes Forbidden, any
// other status becomes Internal with the literal status code in the message,
// and statusless failures become a generic Internal.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var se *StorageError
	if errors.As(err, &se) {
		return err
	}

	var ce *backend.CredentialError
	if errors.As(err, &ce) {
		return &StorageError{Code: CodeBadArgument, Message: ce.Field + ": " + ce.Reason, Err: err}
	}

	status := backend.StatusOf(err)
	if status == 403 || backend.IsForbidden(err) {
		return &StorageError{Code: CodeForbidden, Message: "backend denied access", Err: err}
	}
	if status != 0 {
		return &StorageError{
			Code:    CodeInternal,
			Message: fmt.Sprintf("backend request failed with status %d", status),
			Err:     err,
		}
	}
	return &StorageError{Code: CodeInternal, Message: "backend request failed", Err: err}
}

// badArgument builds a BadArgument error for parameter problems detected
// before any backend call.
func badArgument(format string, args ...any) error {
	return &StorageError{Code: CodeBadArgument, Message: fmt.Sprintf(format, args...)}
}
