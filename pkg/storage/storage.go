// Package storage provides the durable upload store the ingestion pipeline
// reads statement PDFs from.
package storage

import (
	"context"
	"io"
)

// Storage stores uploaded files and serves them back by path. The bytes at
// a returned path are immutable for the lifetime of an ingestion job.
type Storage interface {
	// Save stores the stream and returns a durable path for it.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)

	// Open returns a reader over the file at path. Callers must close it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}
