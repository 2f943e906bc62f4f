package verification

import (
	"context"
	"time"
)

// ReceiptImageStore stores uploaded receipt page images and hands out
// time-limited download URLs for viewing them later.
type ReceiptImageStore interface {
	// Upload stores image data under the given storage key
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	// GenerateDownloadURL returns a presigned URL for reading a stored image
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	// DeleteObject removes a stored image
	DeleteObject(ctx context.Context, storageKey string) error
	// ObjectExists checks whether a stored image exists
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}
