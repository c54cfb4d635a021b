package store

import (
	"context"
	"io"

	"github.com/duotier/duostore/pkg/backend"
)

// Pass-through object operations.
//
// These route a single logical path through the classifier and hand the
// resolved key straight to the container, translating failures on the way
// out. Capability support is detected per container via type assertion.

// Get opens the blob at path for reading and returns its length.
func (s *Store) Get(ctx context.Context, path string) (io.ReadCloser, int64, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	c, key, err := s.resolveOne(path)
	if err != nil {
		return nil, 0, err
	}
	getter, ok := c.(backend.ObjectGetter)
	if !ok {
		return nil, 0, &StorageError{Code: CodeInternal, Message: "backend does not support object reads"}
	}

	body, n, err := getter.GetObject(ctx, key)
	if err != nil {
		return nil, 0, translate(err)
	}
	return body, n, nil
}

// Put writes contentLength bytes from body to the blob at path.
func (s *Store) Put(ctx context.Context, path string, body io.Reader, contentLength int64) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	c, key, err := s.resolveOne(path)
	if err != nil {
		return err
	}
	putter, ok := c.(backend.ObjectPutter)
	if !ok {
		return &StorageError{Code: CodeInternal, Message: "backend does not support object writes"}
	}

	if err := putter.PutObject(ctx, key, body, contentLength); err != nil {
		return translate(err)
	}
	return nil
}

// Delete removes the blob at path. Deleting a missing blob is not an error.
func (s *Store) Delete(ctx context.Context, path string) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	c, key, err := s.resolveOne(path)
	if err != nil {
		return err
	}
	deleter, ok := c.(backend.ObjectDeleter)
	if !ok {
		return &StorageError{Code: CodeInternal, Message: "backend does not support object deletes"}
	}

	if err := deleter.DeleteObject(ctx, key); err != nil {
		return translate(err)
	}
	return nil
}

// resolveOne classifies a path that must address exactly one blob.
func (s *Store) resolveOne(path string) (backend.Container, string, error) {
	r := s.classify(path)
	if r.tier == tierBoth || r.prefix == "" {
		return nil, "", badArgument("path %q does not address a single blob", path)
	}
	return s.containerFor(r.tier), r.prefix, nil
}
