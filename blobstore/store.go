package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for storing immutable dataset blobs.
//
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create creates a blob for streaming writes. The blob becomes visible
	// when Close returns.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting an absent blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns all blob names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.Closer
	// ReadAt reads len(p) bytes starting at offset off.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// ReadRange returns a reader over [off, off+length), clipped to the
	// blob size. The caller must close it.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
	// Size returns the size of the blob in bytes.
	Size() int64
}

// WritableBlob is a streaming write handle returned by Create.
type WritableBlob interface {
	io.WriteCloser
	// Sync flushes written data to durable storage where the backend
	// supports it. Object stores finalize on Close instead.
	Sync() error
}

// Mappable is an optional interface for Blobs whose full content is
// available as a byte slice without copying. The slice is valid until the
// blob is closed.
type Mappable interface {
	Bytes() ([]byte, error)
}

// ReadAll reads the complete content of a named blob.
func ReadAll(ctx context.Context, store BlobStore, name string) ([]byte, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = b.Close() }()

	if m, ok := b.(Mappable); ok {
		raw, err := m.Bytes()
		if err == nil {
			data := make([]byte, len(raw))
			copy(data, raw)
			return data, nil
		}
		// Fall through to ReadAt on mapping failure.
	}

	data := make([]byte, b.Size())
	if len(data) == 0 {
		return data, nil
	}

	n, err := b.ReadAt(ctx, data, 0)
	if err != nil && err != io.EOF {
		return nil, err
	}

	return data[:n], nil
}

// sectionReadCloser adapts a Blob to io.ReadCloser over a byte range. Used
// by implementations whose backends have no native streaming read.
type sectionReadCloser struct {
	ctx  context.Context
	blob Blob
	off  int64
	end  int64
}

func newSectionReadCloser(ctx context.Context, blob Blob, off, length int64) io.ReadCloser {
	end := off + length
	if size := blob.Size(); end > size {
		end = size
	}
	if off >= end {
		return io.NopCloser(bytes.NewReader(nil))
	}
	return &sectionReadCloser{ctx: ctx, blob: blob, off: off, end: end}
}

func (r *sectionReadCloser) Read(p []byte) (int, error) {
	if r.off >= r.end {
		return 0, io.EOF
	}
	if remaining := r.end - r.off; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	return n, err
}

func (r *sectionReadCloser) Close() error { return nil }
