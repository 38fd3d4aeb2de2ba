// Package blobstore provides storage abstraction for immutable dataset
// blobs.
//
// BlobStore is the interface dataset repositories read and publish through.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with mmap-backed reads and atomic writes
//   - MemoryStore: map-backed store for tests
//   - CachingStore: block-level read cache over any other store
//   - s3.Store: Amazon S3 with range reads and streaming uploads
//   - minio.Store: MinIO and other S3-compatible endpoints
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)           // Open for reading
//	    Create(ctx, name) (WritableBlob, error) // Create for streaming writes
//	    Put(ctx, name, data) error              // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Blobs whose full content is available without copying (mmap, in-memory)
// can additionally implement Mappable, which ReadAll uses as a fast path.
package blobstore
