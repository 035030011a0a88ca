package object

import "context"

// Resource kinds understood by remote stores.
const (
	ResourceImage = "image"
	ResourceRaw   = "raw"
)

// UploadOptions describes where and how a buffered object is written remotely.
type UploadOptions struct {
	Folder       string
	ResourceType string
	ContentType  string
	// Extension keeps the original suffix (".png") for stores that name objects themselves.
	Extension string
}

// UploadResult is what a remote store hands back after a successful write.
type UploadResult struct {
	SecureURL string
}

// RemoteClient defines the contract for writing whole in-memory buffers to a
// cloud object store.
type RemoteClient interface {
	UploadStream(ctx context.Context, opts UploadOptions, data []byte) (UploadResult, error)
}
