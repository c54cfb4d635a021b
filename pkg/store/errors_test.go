package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duotier/duostore/pkg/backend"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    Code
		wantMessage string
	}{
		{
			name:        "credential error becomes bad argument",
			err:         &backend.CredentialError{Field: "Account.AccessKey", Reason: backend.ReasonMissingRequired},
			wantCode:    CodeBadArgument,
			wantMessage: "Account.AccessKey: missing required field",
		},
		{
			name:        "403 status becomes forbidden",
			err:         &backend.Error{Op: "ListPage", Status: 403, Err: errors.New("access denied")},
			wantCode:    CodeForbidden,
			wantMessage: "backend denied access",
		},
		{
			name:        "forbidden sentinel without status becomes forbidden",
			err:         &backend.Error{Op: "Probe", Err: backend.ErrForbidden},
			wantCode:    CodeForbidden,
			wantMessage: "backend denied access",
		},
		{
			name:        "other status becomes internal with status detail",
			err:         &backend.Error{Op: "ListPage", Status: 500, Err: errors.New("boom")},
			wantCode:    CodeInternal,
			wantMessage: "backend request failed with status 500",
		},
		{
			name:        "statusless failure becomes generic internal",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    CodeInternal,
			wantMessage: "backend request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err)
			require.Error(t, got)

			var se *StorageError
			require.ErrorAs(t, got, &se)
			assert.Equal(t, tt.wantCode, se.Code)
			assert.Equal(t, tt.wantMessage, se.Message)

			// The raw cause stays reachable for inspection.
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestTranslate_Nil(t *testing.T) {
	assert.NoError(t, translate(nil))
}

func TestTranslate_ContextErrorsPassThrough(t *testing.T) {
	assert.Equal(t, context.Canceled, translate(context.Canceled))
	assert.Equal(t, context.DeadlineExceeded, translate(context.DeadlineExceeded))

	wrapped := fmt.Errorf("list page: %w", context.Canceled)
	assert.Equal(t, wrapped, translate(wrapped))
}

func TestTranslate_StorageErrorUnchanged(t *testing.T) {
	orig := badArgument("path %q does not address a single blob", "/")
	assert.Equal(t, orig, translate(orig))

	wrapped := fmt.Errorf("open: %w", orig)
	assert.Equal(t, wrapped, translate(wrapped))
}

func TestStorageError_Error(t *testing.T) {
	withCause := &StorageError{Code: CodeInternal, Message: "backend request failed", Err: errors.New("boom")}
	assert.Equal(t, "INTERNAL: backend request failed: boom", withCause.Error())

	bare := &StorageError{Code: CodeBadArgument, Message: "dial function is required"}
	assert.Equal(t, "BAD_ARGUMENT: dial function is required", bare.Error())
}

func TestCodePredicates(t *testing.T) {
	assert.True(t, IsBadArgument(&StorageError{Code: CodeBadArgument}))
	assert.True(t, IsForbidden(&StorageError{Code: CodeForbidden}))
	assert.True(t, IsInternal(&StorageError{Code: CodeInternal}))

	wrapped := fmt.Errorf("ls: %w", &StorageError{Code: CodeForbidden})
	assert.True(t, IsForbidden(wrapped))
	assert.False(t, IsForbidden(errors.New("plain")))
	assert.False(t, IsForbidden(nil))
}
