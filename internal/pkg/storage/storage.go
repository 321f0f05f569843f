package storage

import (
	"context"
	"io"
	"time"
)

// StoredFile describes the outcome of an upload.
type StoredFile struct {
	Path string
	URL  string
	Hash string // sha256, hex
}

// FileStorage persists opaque file bytes. The core never inspects content.
type FileStorage interface {
	// Store writes a file and returns its path, public URL and content hash.
	Store(ctx context.Context, file io.Reader, path string, contentType string) (StoredFile, error)

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// GetURL generates a public URL for a stored path.
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}
