package cache

import "context"

// Key identifies one fixed-size block of a named blob.
// It must be stable across processes so disk-backed caches survive restarts.
type Key struct {
	// Blob is the name of the blob within its store.
	Blob string
	// Block is the block index (byte offset / block size).
	Block uint64
}

// BlockCache is a byte-oriented cache for immutable blob blocks.
// Returned slices must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block. ok=false if missing.
	Get(ctx context.Context, key Key) (b []byte, ok bool)
	// Set caches a block. Implementations may copy or retain; the caller
	// must treat b as immutable afterwards.
	Set(ctx context.Context, key Key, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key Key) bool)
	// Close releases any resources (e.g. background workers).
	Close() error
	// Stats returns cache statistics.
	Stats() (hits, misses int64)
}
