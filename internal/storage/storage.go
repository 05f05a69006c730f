// Package storage holds the blob store used for resource attachments
// (audio uploads, exports, transcript artifacts). The lifecycle engine only
// ever deletes objects; uploads go through the project layer.
package storage

import (
	"context"
	"io"
)

// BlobStore is the external object storage collaborator.
type BlobStore interface {
	// Put stores an object under the given key. Storing the same key twice
	// overwrites.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Get retrieves an object and writes it to w.
	Get(ctx context.Context, key string, w io.Writer) error

	// Delete removes an object. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
