package storage

import "context"

// BlobStore abstracts the object storage holding uploaded files.
// The ingestion pipeline only ever reads; Put/Delete serve the upload
// and cleanup paths.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
