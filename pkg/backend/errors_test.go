package backend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "with container and key",
			err: &Error{
				Op:        "Probe",
				Kind:      KindS3,
				Container: "acme-media-private",
				Key:       "docs/q3.pdf",
				Err:       ErrNotFound,
			},
			expected: "s3 Probe: acme-media-private/docs/q3.pdf: blob not found",
		},
		{
			name: "with container only",
			err: &Error{
				Op:        "Ensure",
				Kind:      KindS3,
				Container: "acme-media-public",
				Err:       ErrAlreadyExists,
			},
			expected: "s3 Ensure: acme-media-public: container already exists",
		},
		{
			name: "bare operation",
			err: &Error{
				Op:   "Open",
				Kind: KindS3,
				Err:  errors.New("dial tcp: timeout"),
			},
			expected: "s3 Open: dial tcp: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestSentinelHelpers(t *testing.T) {
	wrapped := &Error{Op: "Probe", Kind: KindS3, Err: ErrNotFound}
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsAlreadyExists(wrapped))
	assert.False(t, IsForbidden(wrapped))

	assert.True(t, IsAlreadyExists(&Error{Op: "Ensure", Kind: KindFile, Err: ErrAlreadyExists}))
	assert.True(t, IsForbidden(&Error{Op: "ListPage", Kind: KindS3, Err: ErrForbidden}))
	assert.False(t, IsNotFound(errors.New("unrelated")))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, 0, StatusOf(errors.New("no status here")))
	assert.Equal(t, 0, StatusOf(&Error{Op: "ListPage", Kind: KindS3, Err: errors.New("x")}))
	assert.Equal(t, 503, StatusOf(&Error{Op: "ListPage", Kind: KindS3, Status: 503, Err: errors.New("x")}))

	// Status is discoverable through wrapping.
	inner := &Error{Op: "Probe", Kind: KindS3, Status: 403, Err: ErrForbidden}
	assert.Equal(t, 403, StatusOf(inner))
}
