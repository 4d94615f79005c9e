// Package storage holds the blob storage contract shared by the local and S3
// backends.
package storage

import (
	"context"
	"io"
)

// Blob persists uploaded bytes and returns the location recorded on the
// media asset.
type Blob interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Ping(ctx context.Context) error
}
