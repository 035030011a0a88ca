package uploads

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path"
	"strings"
	"time"

	"lawyerup-backend/internal/shared/storage/object"
	"lawyerup-backend/internal/shared/storage/object/local"
	"lawyerup-backend/internal/shared/util"
)

// Backend names, used in logs, metrics and StorageError.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// localPrefix is how every local location starts.
const localPrefix = "/" + localRoot + "/"

// Backend persists a classified file and returns its public location.
type Backend interface {
	Name() string
	Put(ctx context.Context, f IncomingFile, c Category) (string, error)
}

// LocalBackend writes files below the category directory of a local store.
type LocalBackend struct {
	store *local.Store
	now   func() time.Time
	draw  func() int64
}

// NewLocalBackend builds a LocalBackend over store.
func NewLocalBackend(store *local.Store) *LocalBackend {
	return &LocalBackend{
		store: store,
		now:   time.Now,
		draw:  func() int64 { return rand.Int64N(1_000_000_000) },
	}
}

func (b *LocalBackend) Name() string { return BackendLocal }

// Put ensures the category directory exists, writes the file under a
// synthesized name and returns a root-relative, forward-slash location.
func (b *LocalBackend) Put(ctx context.Context, f IncomingFile, c Category) (string, error) {
	dir := c.Dir()
	if err := b.store.EnsureDir(dir); err != nil {
		return "", err
	}

	rel := path.Join(dir, b.fileName(f))
	if err := b.store.WriteFile(ctx, rel, f.Data); err != nil {
		return "", err
	}
	return PublicPath(rel), nil
}

func (b *LocalBackend) fileName(f IncomingFile) string {
	return util.SafeName(fmt.Sprintf("%s-%d-%d%s", f.Field, b.now().UnixMilli(), b.draw(), f.Ext()))
}

// Remove deletes the file behind a local location. Missing files are ignored.
func (b *LocalBackend) Remove(location string) error {
	return b.store.Remove(strings.TrimPrefix(location, "/"))
}

// PublicPath turns a store-relative path into a location: forward slashes
// only, with a leading slash.
func PublicPath(rel string) string {
	p := strings.ReplaceAll(rel, `\`, "/")
	return "/" + strings.TrimLeft(p, "/")
}

// IsLocalLocation reports whether location was produced by the local backend.
func IsLocalLocation(location string) bool {
	return strings.HasPrefix(location, localPrefix)
}

// RemoteBackend uploads buffers to a cloud store under a namespaced folder.
type RemoteBackend struct {
	client    object.RemoteClient
	namespace string
}

// NewRemoteBackend builds a RemoteBackend; namespace replaces the "uploads" root.
func NewRemoteBackend(client object.RemoteClient, namespace string) *RemoteBackend {
	return &RemoteBackend{client: client, namespace: namespace}
}

func (b *RemoteBackend) Name() string { return BackendRemote }

// Put uploads the raw buffer and returns the canonical URL from the store.
func (b *RemoteBackend) Put(ctx context.Context, f IncomingFile, c Category) (string, error) {
	res, err := b.client.UploadStream(ctx, object.UploadOptions{
		Folder:       RemoteFolder(b.namespace, c),
		ResourceType: ResourceType(f.MimeType),
		ContentType:  f.MimeType,
		Extension:    f.Ext(),
	}, f.Data)
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}

// RemoteFolder derives the remote folder by replacing the leading "uploads"
// segment of the category directory with namespace. The rest is kept verbatim.
func RemoteFolder(namespace string, c Category) string {
	rest := strings.TrimPrefix(c.Dir(), localRoot)
	return strings.Trim(namespace, "/") + rest
}

// ResourceType is "image" for image/* MIME types and "raw" for everything else.
func ResourceType(mime string) string {
	if strings.HasPrefix(mime, "image/") {
		return object.ResourceImage
	}
	return object.ResourceRaw
}
