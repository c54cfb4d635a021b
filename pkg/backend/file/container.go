// Package file implements the backend container interfaces on a local
// directory.
//
// Keys are relative paths under the container directory. Listing is flat:
// the whole tree is walked and filtered by string prefix, matching blob
// semantics rather than directory semantics. This backend exists for
// development and tests; page size is configurable so pagination behavior
// can be exercised with small fixtures.
package file

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/duotier/duostore/pkg/backend"
)

// DefaultPageSize is the listing page size when none is configured.
const DefaultPageSize = 1000

// Container implements backend.Container for a local directory.
type Container struct {
	dir      string
	pageSize int
}

// Ensure Container implements the interfaces.
var (
	_ backend.Container     = (*Container)(nil)
	_ backend.ObjectGetter  = (*Container)(nil)
	_ backend.ObjectPutter  = (*Container)(nil)
	_ backend.ObjectDeleter = (*Container)(nil)
)

// Config configures a file container.
type Config struct {
	// Dir is the directory backing the container (required).
	Dir string

	// PageSize is the listing page size. Zero uses DefaultPageSize.
	PageSize int
}

// New creates a file container rooted at cfg.Dir.
func New(cfg Config) (*Container, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("container dir is required")
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Container{dir: filepath.Clean(cfg.Dir), pageSize: pageSize}, nil
}

// Probe checks that a regular file with the exact key exists.
func (c *Container) Probe(ctx context.Context, key string) error {
	_ = ctx
	full, err := c.fullPath(key)
	if err != nil {
		return c.wrapError("Probe", key, err)
	}
	st, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return &backend.Error{Op: "Probe", Kind: backend.KindFile, Container: c.dir, Key: key, Err: backend.ErrNotFound}
		}
		return c.wrapError("Probe", key, err)
	}
	if st.IsDir() {
		return &backend.Error{Op: "Probe", Kind: backend.KindFile, Container: c.dir, Key: key, Err: backend.ErrNotFound}
	}
	return nil
}

// ListPage returns one page of keys starting with prefix, in lexical order.
// The marker is the last key of the previous page; listing resumes strictly
// after it.
func (c *Container) ListPage(ctx context.Context, prefix, marker string) (*backend.Page, error) {
	_ = ctx
	keys, err := c.collectKeys(prefix)
	if err != nil {
		return nil, c.wrapError("ListPage", prefix, err)
	}
	sort.Strings(keys)

	start := 0
	if marker != "" {
		idx := sort.SearchStrings(keys, marker)
		for idx < len(keys) && keys[idx] <= marker {
			idx++
		}
		start = idx
	}

	end := start + c.pageSize
	if end > len(keys) {
		end = len(keys)
	}

	page := &backend.Page{Names: keys[start:end]}
	if end < len(keys) {
		page.NextMarker = keys[end-1]
	}
	return page, nil
}

// Ensure idempotently creates the container directory.
// The access level has no filesystem equivalent and is ignored.
func (c *Container) Ensure(ctx context.Context, access backend.AccessLevel) error {
	_ = ctx
	_ = access
	if st, err := os.Stat(c.dir); err == nil && st.IsDir() {
		return &backend.Error{Op: "Ensure", Kind: backend.KindFile, Container: c.dir, Err: backend.ErrAlreadyExists}
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return c.wrapError("Ensure", "", err)
	}
	return nil
}

// GetObject opens a blob for reading.
func (c *Container) GetObject(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	_ = ctx
	full, err := c.fullPath(key)
	if err != nil {
		return nil, 0, c.wrapError("GetObject", key, err)
	}
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, &backend.Error{Op: "GetObject", Kind: backend.KindFile, Container: c.dir, Key: key, Err: backend.ErrNotFound}
		}
		return nil, 0, c.wrapError("GetObject", key, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, c.wrapError("GetObject", key, err)
	}
	return f, st.Size(), nil
}

// PutObject writes a blob atomically via a temp file rename.
func (c *Container) PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error {
	_ = ctx
	_ = contentLength
	full, err := c.fullPath(key)
	if err != nil {
		return c.wrapError("PutObject", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return c.wrapError("PutObject", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), "duostore-put-*")
	if err != nil {
		return c.wrapError("PutObject", key, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := io.Copy(tmp, body); err != nil {
		return c.wrapError("PutObject", key, err)
	}
	if err := tmp.Close(); err != nil {
		return c.wrapError("PutObject", key, err)
	}

	if err := os.Rename(tmpName, full); err != nil {
		return c.wrapError("PutObject", key, err)
	}
	return nil
}

// DeleteObject removes a blob. Deleting a missing blob is not an error.
func (c *Container) DeleteObject(ctx context.Context, key string) error {
	_ = ctx
	full, err := c.fullPath(key)
	if err != nil {
		return c.wrapError("DeleteObject", key, err)
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return c.wrapError("DeleteObject", key, err)
	}
	return nil
}

func (c *Container) wrapError(op, key string, err error) error {
	return &backend.Error{Op: op, Kind: backend.KindFile, Container: c.dir, Key: key, Err: err}
}

func (c *Container) fullPath(key string) (string, error) {
	key = strings.TrimSpace(key)
	key = strings.TrimPrefix(key, "/")
	// Prevent path traversal.
	clean := filepath.Clean("/" + key)
	clean = strings.TrimPrefix(clean, "/")
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid key path")
	}
	return filepath.Join(c.dir, filepath.FromSlash(clean)), nil
}

// collectKeys walks the container and returns every key starting with
// prefix. Prefixes are plain string prefixes over slash-separated keys, not
// directory boundaries.
func (c *Container) collectKeys(prefix string) ([]string, error) {
	if _, err := os.Stat(c.dir); err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var keys []string
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(c.dir, path)
		if relErr != nil {
			return nil
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
