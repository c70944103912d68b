package repository

import (
	"context"
	"io"
	"time"
)

// ObjectStorage defines the interface for object storage operations.
// Implementations should be provided by the infrastructure layer (e.g., MinIO, S3).
type ObjectStorage interface {
	// Upload stores an object under key. size may be -1 when unknown.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download retrieves an object from the storage.
	// Caller is responsible for closing the returned ReadCloser.
	// Returns ErrObjectNotFound if no object exists under key.
	Download(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)

	// Delete removes an object from the storage.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object exists under key. It never fails:
	// backend errors during the check are logged and reported as absence.
	Exists(ctx context.Context, key string) bool

	// Stat returns metadata about the object stored under key.
	// Returns ErrObjectNotFound if no object exists under key.
	Stat(ctx context.Context, key string) (ObjectInfo, error)

	// PublicURL derives the externally reachable URL for key from the
	// configured endpoint, bucket and TLS flag. Pure, no I/O.
	PublicURL(key string) string

	// GeneratePresignedDownloadURL creates a time-limited URL for
	// downloading an object without credentials.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}
