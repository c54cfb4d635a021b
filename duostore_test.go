package duostore

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duotier/duostore/pkg/backend"
	"github.com/duotier/duostore/pkg/store"
)

func fileCredentials(t *testing.T) backend.Credentials {
	t.Helper()
	return backend.Credentials{Account: &backend.AccountCredentials{
		Account:         "local",
		AccessKey:       "local",
		ContainerPrefix: filepath.Join(t.TempDir(), "duostore"),
	}}
}

func TestConnect_FileBackendEndToEnd(t *testing.T) {
	ctx := context.Background()

	s, err := Connect(ctx, Config{
		Backend:     backend.KindFile,
		Credentials: fileCredentials(t),
	})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	for _, path := range []string{
		"dir/inadir/file.html",
		"afile.html",
		"public/afile.html",
		"public/sub/afile.html",
	} {
		require.NoError(t, s.Put(ctx, path, strings.NewReader("content"), int64(len("content"))))
	}

	names, err := s.List(ctx, "/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"dir/inadir/file.html",
		"afile.html",
		"public/afile.html",
		"public/sub/afile.html",
	}, names)

	// Private names come first, public names after with the prefix attached.
	assert.Equal(t, []string{"public/afile.html", "public/sub/afile.html"}, names[2:])

	names, err = s.List(ctx, "afile.html")
	require.NoError(t, err)
	assert.Equal(t, []string{"afile.html"}, names)

	names, err = s.List(ctx, "missing.html")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.Delete(ctx, "public/afile.html"))
	names, err = s.List(ctx, "public/")
	require.NoError(t, err)
	assert.Equal(t, []string{"public/sub/afile.html"}, names)
}

func TestConnect_ReopenExistingContainers(t *testing.T) {
	ctx := context.Background()
	creds := fileCredentials(t)

	s, err := Connect(ctx, Config{Backend: backend.KindFile, Credentials: creds})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Second connect hits the already-provisioned directory pair.
	s, err = Connect(ctx, Config{Backend: backend.KindFile, Credentials: creds})
	require.NoError(t, err)
	_ = s.Close()
}

func TestConnect_DelegatedWithFileBackend(t *testing.T) {
	creds := backend.Credentials{Delegated: &backend.DelegatedCredentials{
		PrivateURL: "https://storage.example.com/p?access-key-id=id&secret-access-key=sk",
		PublicURL:  "https://storage.example.com/q?access-key-id=id&secret-access-key=sk",
	}}

	_, err := Connect(context.Background(), Config{Backend: backend.KindFile, Credentials: creds})
	require.Error(t, err)
	assert.True(t, store.IsBadArgument(err))
}

func TestConnect_UnimplementedKinds(t *testing.T) {
	for _, kind := range []backend.Kind{backend.KindGCS, backend.KindAzure} {
		_, err := Connect(context.Background(), Config{Backend: kind, Credentials: fileCredentials(t)})
		require.Error(t, err, "kind %s", kind)
		assert.True(t, store.IsBadArgument(err))
		assert.Contains(t, err.Error(), "not implemented")
	}
}

func TestConnect_UnknownKind(t *testing.T) {
	_, err := Connect(context.Background(), Config{Backend: backend.Kind("ftp"), Credentials: fileCredentials(t)})
	require.Error(t, err)
	assert.True(t, store.IsBadArgument(err))
	assert.Contains(t, err.Error(), "unknown backend kind")
}

func TestConnect_InvalidCredentials(t *testing.T) {
	_, err := Connect(context.Background(), Config{Backend: backend.KindFile})
	require.Error(t, err)
	assert.True(t, store.IsBadArgument(err))
}

func TestConnect_CustomPublicPrefix(t *testing.T) {
	ctx := context.Background()

	s, err := Connect(ctx, Config{
		Backend:      backend.KindFile,
		Credentials:  fileCredentials(t),
		PublicPrefix: "shared",
	})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Put(ctx, "shared/a.txt", strings.NewReader("x"), 1))

	names, err := s.List(ctx, "shared/")
	require.NoError(t, err)
	assert.Equal(t, []string{"shared/a.txt"}, names)
}
