package core

import (
	"context"
	"io"
)

// FileStore persists attachment payloads outside the database. Only the
// generated file name and the relative path below the storage root are
// recorded in the attachment row.
type FileStore interface {
	// Save writes the contents of r under the given relative path and
	// returns the number of bytes written.
	Save(ctx context.Context, relativePath string, r io.Reader) (int64, error)
	// Open returns a reader for the stored file.
	Open(ctx context.Context, relativePath string) (io.ReadCloser, error)
	// Remove deletes the stored file.
	Remove(ctx context.Context, relativePath string) error
}
