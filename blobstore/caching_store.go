package blobstore

import (
	"context"
	"errors"
	"io"

	"github.com/hupe1980/exprset/internal/cache"
	"golang.org/x/sync/errgroup"
)

// prefetchConcurrency bounds the number of parallel backend reads issued
// while filling the cache, to avoid FD exhaustion and remote rate limits.
const prefetchConcurrency = 16

// CachingStore wraps a BlobStore and adds block-level read caching. Writes
// pass through and invalidate any cached blocks of the written blob.
//
// It is intended for remote backends (s3, minio) where every read is a
// network round trip; dataset readers touch the footer, the directory, and
// the sections as separate small reads that the cache coalesces.
type CachingStore struct {
	inner     BlobStore
	cache     cache.BlockCache
	blockSize int64
}

// NewCachingStore creates a CachingStore over inner. blockSize defaults to
// 64KB if <= 0, a reasonable request size for object stores.
func NewCachingStore(inner BlobStore, blockCache cache.BlockCache, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = 64 * 1024
	}
	return &CachingStore{
		inner:     inner,
		cache:     blockCache,
		blockSize: blockSize,
	}
}

// Open opens a blob whose reads go through the block cache.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachingBlob{
		inner:     b,
		cache:     s.cache,
		name:      name,
		blockSize: s.blockSize,
	}, nil
}

// Create passes through. Blobs are immutable once written, so there is
// nothing to invalidate until the writer closes; Put handles overwrites.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.invalidate(name)
	return s.inner.Create(ctx, name)
}

// Put writes through and drops any cached blocks of the blob.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes the blob and its cached blocks.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List passes through.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func (s *CachingStore) invalidate(name string) {
	s.cache.Invalidate(func(key cache.Key) bool {
		return key.Blob == name
	})
}

// cachingBlob serves reads from the block cache, fetching missing blocks
// from the inner blob in coalesced runs.
type cachingBlob struct {
	inner     Blob
	cache     cache.BlockCache
	name      string
	blockSize int64
}

func (b *cachingBlob) Close() error {
	return b.inner.Close()
}

func (b *cachingBlob) Size() int64 {
	return b.inner.Size()
}

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	startBlock := off / b.blockSize
	endBlock := (off + int64(len(p)) - 1) / b.blockSize

	if err := b.fillCache(ctx, startBlock, endBlock); err != nil {
		return 0, err
	}

	totalRead := 0

	for blk := startBlock; blk <= endBlock; blk++ {
		blkStart := blk * b.blockSize

		// Intersection of this block with the requested range.
		copyStart := max(blkStart, off)
		copyEnd := min(blkStart+b.blockSize, off+int64(len(p)))
		if copyEnd <= copyStart {
			continue
		}

		blockData, err := b.fetchBlock(ctx, blk)
		if err != nil {
			return totalRead, err
		}

		srcOff := copyStart - blkStart
		if srcOff >= int64(len(blockData)) {
			// Short final block: the blob ends inside this block.
			break
		}

		n := copy(p[copyStart-off:copyEnd-off], blockData[srcOff:])
		totalRead += n
	}

	if int64(totalRead) < int64(len(p)) {
		return totalRead, io.EOF
	}
	return totalRead, nil
}

func (b *cachingBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	return newSectionReadCloser(ctx, b, off, length), nil
}

// fillCache loads every missing block in [startBlock, endBlock] into the
// cache, fetching contiguous runs of misses as single backend reads.
func (b *cachingBlob) fillCache(ctx context.Context, startBlock, endBlock int64) error {
	type run struct {
		start, count int64
	}

	var missing []run

	current := run{start: -1}
	for blk := startBlock; blk <= endBlock; blk++ {
		if _, ok := b.cache.Get(ctx, b.key(blk)); ok {
			if current.start != -1 {
				missing = append(missing, current)
				current = run{start: -1}
			}
			continue
		}
		if current.start == -1 {
			current = run{start: blk, count: 1}
		} else {
			current.count++
		}
	}
	if current.start != -1 {
		missing = append(missing, current)
	}

	if len(missing) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchConcurrency)

	for _, r := range missing {
		g.Go(func() error {
			return b.fetchRun(gctx, r.start, r.count)
		})
	}

	return g.Wait()
}

// fetchRun reads count blocks starting at block start from the inner blob
// and caches each one.
func (b *cachingBlob) fetchRun(ctx context.Context, start, count int64) error {
	byteStart := start * b.blockSize
	byteSize := count * b.blockSize

	size := b.Size()
	if byteStart >= size {
		return nil
	}
	if byteStart+byteSize > size {
		byteSize = size - byteStart
	}

	buf := make([]byte, byteSize)
	n, err := b.inner.ReadAt(ctx, buf, byteStart)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if n == 0 {
		return nil
	}

	valid := buf[:n]

	for i := int64(0); i < count; i++ {
		blockOff := i * b.blockSize
		if blockOff >= int64(len(valid)) {
			break
		}

		blockEnd := min(blockOff+b.blockSize, int64(len(valid)))

		// Copy out so the cache does not pin the whole run buffer.
		block := make([]byte, blockEnd-blockOff)
		copy(block, valid[blockOff:blockEnd])

		b.cache.Set(ctx, b.key(start+i), block)
	}

	return nil
}

func (b *cachingBlob) fetchBlock(ctx context.Context, blk int64) ([]byte, error) {
	key := b.key(blk)

	if data, ok := b.cache.Get(ctx, key); ok {
		return data, nil
	}

	// Missed despite fillCache (evicted under pressure); fetch directly.
	buf := make([]byte, b.blockSize)
	n, err := b.inner.ReadAt(ctx, buf, blk*b.blockSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	valid := buf[:n]
	if n > 0 {
		b.cache.Set(ctx, key, valid)
	}

	return valid, nil
}

func (b *cachingBlob) key(blk int64) cache.Key {
	return cache.Key{Blob: b.name, Block: uint64(blk)}
}
