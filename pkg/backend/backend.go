// Package backend defines abstractions for the container backends that serve
// a two-tier blob store.
//
// A backend exposes two flat blob namespaces (one private, one public) as
// Container handles. Containers implement a minimal surface area focused on
// existence probing, paginated flat listing, and idempotent creation. The
// routing and merge logic lives above this package, in pkg/store, and depends
// only on the interfaces defined here - never on a concrete SDK type.
package backend

import (
	"context"
	"io"
)

// Container is a single flat namespace of named blobs.
//
// Implementations should:
//   - Support pagination via continuation markers
//   - Map backend failures onto the sentinel errors in this package
//   - Be safe for concurrent use
type Container interface {
	// Probe checks that a blob with the exact key exists.
	// Returns ErrNotFound if it does not.
	Probe(ctx context.Context, key string) error

	// ListPage returns one page of blob names starting with prefix.
	// Pass the NextMarker from the previous page to resume; an empty
	// marker starts from the beginning. A returned Page with an empty
	// NextMarker is the final page.
	ListPage(ctx context.Context, prefix, marker string) (*Page, error)

	// Ensure idempotently creates the container with the given access
	// level. Returns ErrAlreadyExists when the container is already
	// provisioned; callers treat that as success.
	Ensure(ctx context.Context, access AccessLevel) error
}

// Page is one page of listing results.
type Page struct {
	// Names are the blob names for this page, in backend arrival order.
	Names []string

	// NextMarker resumes listing on the next call.
	// Empty string means there are no more pages.
	NextMarker string
}

// AccessLevel controls the visibility of a container at creation time.
type AccessLevel int

const (
	// AccessPrivate containers require credentials for every read.
	AccessPrivate AccessLevel = iota

	// AccessPublicRead containers allow unauthenticated blob reads.
	AccessPublicRead
)

// String returns the string representation of the access level.
func (a AccessLevel) String() string {
	if a == AccessPublicRead {
		return "public-read"
	}
	return "private"
}

// Optional container capability interfaces.
//
// These are used for feature detection (type assertions). The core Container
// interface remains intentionally small.

// ObjectGetter can download blobs as a stream.
type ObjectGetter interface {
	GetObject(ctx context.Context, key string) (body io.ReadCloser, contentLength int64, err error)
}

// ObjectPutter can create/overwrite blobs.
type ObjectPutter interface {
	PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error
}

// ObjectDeleter can delete blobs.
type ObjectDeleter interface {
	DeleteObject(ctx context.Context, key string) error
}

// Kind identifies a container backend.
type Kind string

const (
	// KindS3 represents AWS S3 or S3-compatible storage.
	KindS3 Kind = "s3"

	// KindFile represents a local filesystem backend for development
	// and tests.
	KindFile Kind = "file"

	// KindGCS represents Google Cloud Storage (future).
	KindGCS Kind = "gcs"

	// KindAzure represents Azure Blob Storage (future).
	KindAzure Kind = "azure"
)

// String returns the string representation of the backend kind.
func (k Kind) String() string {
	return string(k)
}
