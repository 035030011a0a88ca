package uploads

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawyerup-backend/internal/shared/storage/object/local"
)

func newLocalRouter(t *testing.T) (*Router, string) {
	t.Helper()
	root := t.TempDir()
	r, err := NewRouter(RouterConfig{}, NewLocalBackend(local.New(root)), nil)
	require.NoError(t, err)
	return r, root
}

func TestNewRouterSelection(t *testing.T) {
	t.Parallel()

	lb := NewLocalBackend(local.New(t.TempDir()))
	remote := NewRemoteBackend(&fakeRemote{url: "https://x"}, "lawyerup")

	r, err := NewRouter(RouterConfig{UseRemote: false}, lb, remote)
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, r.Backend())

	r, err = NewRouter(RouterConfig{UseRemote: true}, lb, remote)
	require.NoError(t, err)
	assert.Equal(t, BackendRemote, r.Backend())

	_, err = NewRouter(RouterConfig{UseRemote: true}, lb, nil)
	require.Error(t, err)

	_, err = NewRouter(RouterConfig{}, nil, remote)
	require.Error(t, err)
}

func TestRouterStoreLocal(t *testing.T) {
	t.Parallel()

	r, root := newLocalRouter(t)
	loc, err := r.Store(context.Background(), IncomingFile{
		Field:    "licenseFile",
		MimeType: "application/pdf",
		FileName: "license.pdf",
		Data:     []byte("%PDF-1.7"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(loc, "/uploads/lawyers/license/licenseFile-"), loc)
	assert.True(t, strings.HasSuffix(loc, ".pdf"), loc)

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(loc, "/"))))
	require.NoError(t, err)
}

func TestRouterStoreAsUsesGivenCategory(t *testing.T) {
	t.Parallel()

	r, root := newLocalRouter(t)
	loc, err := r.StoreAs(context.Background(), IncomingFile{Field: "image", MimeType: "image/png", FileName: "a.png", Data: []byte("x")}, CategoryLawyerPhoto)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(loc, "/uploads/lawyers/photo/image-"), loc)

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(loc, "/"))))
	require.NoError(t, err)
}

func TestRouterStoreRemote(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{url: "https://res.example.com/lawyerup/news/abc.png"}
	r, err := NewRouter(RouterConfig{UseRemote: true}, NewLocalBackend(local.New(t.TempDir())), NewRemoteBackend(remote, "lawyerup"))
	require.NoError(t, err)

	loc, err := r.Store(context.Background(), IncomingFile{Field: "image", MimeType: "image/png", FileName: "a.png", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, remote.url, loc)
	require.Len(t, remote.opts, 1)
	assert.Equal(t, "lawyerup/news", remote.opts[0].Folder)
	assert.Equal(t, "image", remote.opts[0].ResourceType)
}

func TestRouterStoreWrapsBackendError(t *testing.T) {
	t.Parallel()

	boom := errors.New("network unreachable")
	r, err := NewRouter(RouterConfig{UseRemote: true}, NewLocalBackend(local.New(t.TempDir())), NewRemoteBackend(&fakeRemote{err: boom}, "lawyerup"))
	require.NoError(t, err)

	_, err = r.Store(context.Background(), IncomingFile{Field: "image", MimeType: "image/png"})
	require.Error(t, err)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, BackendRemote, storageErr.Backend)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "network unreachable")
}

func TestRouterStoreCancelledBeforeStart(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{url: "https://x"}
	r, err := NewRouter(RouterConfig{UseRemote: true}, NewLocalBackend(local.New(t.TempDir())), NewRemoteBackend(remote, "lawyerup"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Store(ctx, IncomingFile{Field: "image"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, remote.opts, "no write may start after cancellation")
}

func TestRouterDiscard(t *testing.T) {
	t.Parallel()

	r, root := newLocalRouter(t)
	loc, err := r.Store(context.Background(), IncomingFile{Field: "image", MimeType: "image/png", FileName: "a.png", Data: []byte("x")})
	require.NoError(t, err)
	full := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(loc, "/")))

	r.Discard(context.Background(), loc)
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err), "expected file to be removed")

	// Missing files, remote URLs and empty locations are silently ignored.
	r.Discard(context.Background(), loc)
	r.Discard(context.Background(), "https://res.example.com/lawyerup/news/a.png")
	r.Discard(context.Background(), "")
}

func TestIsLocalLocation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsLocalLocation("/uploads/news/a.png"))
	assert.False(t, IsLocalLocation("https://res.example.com/uploads/news/a.png"))
	assert.False(t, IsLocalLocation("uploads/news/a.png"))
}
