package cache

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DiskCacheConfig holds configuration for the disk cache.
type DiskCacheConfig struct {
	// RootDir is the directory where cache files are stored.
	RootDir string
	// MaxSizeBytes is the maximum size of the cache in bytes.
	MaxSizeBytes int64
	// MaxConcurrentWrites limits background disk writes to prevent unbounded
	// goroutines. Defaults to 16 if <= 0.
	MaxConcurrentWrites int64
}

// DiskBlockCache implements BlockCache backed by the local filesystem.
// It keeps blocks fetched from remote dataset repositories so re-opening a
// dataset does not re-download it. An in-memory LRU index tracks the files
// on disk.
type DiskBlockCache struct {
	mu          sync.Mutex
	rootDir     string
	maxSize     int64
	currentSize int64

	// writeSem bounds concurrent background writes.
	writeSem *semaphore.Weighted

	items   map[Key]*lruEntry
	lruHead *lruEntry
	lruTail *lruEntry
	wg      sync.WaitGroup

	hits   atomic.Int64
	misses atomic.Int64
}

type lruEntry struct {
	key        Key
	size       int64
	filePath   string
	next, prev *lruEntry
}

// NewDiskBlockCache creates a new disk-backed block cache.
// It scans RootDir to rebuild the index on startup.
func NewDiskBlockCache(config DiskCacheConfig) (*DiskBlockCache, error) {
	if err := os.MkdirAll(config.RootDir, 0o755); err != nil {
		return nil, err
	}

	maxWrites := config.MaxConcurrentWrites
	if maxWrites <= 0 {
		maxWrites = 16
	}

	c := &DiskBlockCache{
		rootDir:  config.RootDir,
		maxSize:  config.MaxSizeBytes,
		items:    make(map[Key]*lruEntry),
		writeSem: semaphore.NewWeighted(maxWrites),
	}

	c.scanExistingFiles()

	return c, nil
}

func (c *DiskBlockCache) scanExistingFiles() {
	_ = filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil //nolint:nilerr // keep scanning past unreadable entries
		}
		if info.IsDir() {
			return nil
		}

		key, ok := c.parsePathToKey(path)
		if !ok {
			return nil
		}

		c.addToLRU(key, path, info.Size())
		return nil
	})
}

// encodeKeyToRelPath lays blocks out as <escaped blob name>/<block>.blk.
// Blob names may contain path separators, so they are escaped into a single
// directory component.
func (c *DiskBlockCache) encodeKeyToRelPath(key Key) string {
	dir := url.PathEscape(key.Blob)
	if dir == "" {
		dir = "_misc"
	}
	return filepath.Join(dir, fmt.Sprintf("%d.blk", key.Block))
}

func (c *DiskBlockCache) parsePathToKey(absPath string) (Key, bool) {
	relPath, err := filepath.Rel(c.rootDir, absPath)
	if err != nil {
		return Key{}, false
	}

	dir, file := filepath.Split(relPath)

	var block uint64
	n, err := fmt.Sscanf(file, "%d.blk", &block)
	if err != nil || n != 1 {
		return Key{}, false
	}

	dir = strings.TrimSuffix(dir, string(filepath.Separator))
	blob := ""
	if dir != "" && dir != "_misc" {
		blob, err = url.PathUnescape(dir)
		if err != nil {
			return Key{}, false
		}
	}

	return Key{Blob: blob, Block: block}, true
}

func (c *DiskBlockCache) Get(ctx context.Context, key Key) ([]byte, bool) {
	c.mu.Lock()
	ent, ok := c.items[key]
	if ok {
		c.moveToFront(ent)
	}
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	data, err := os.ReadFile(ent.filePath)
	if err != nil {
		// File vanished underneath the index; drop the entry.
		c.mu.Lock()
		c.removeEntry(ent)
		c.mu.Unlock()
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return data, true
}

func (c *DiskBlockCache) Set(ctx context.Context, key Key, b []byte) {
	c.mu.Lock()

	if ent, ok := c.items[key]; ok {
		c.moveToFront(ent)
		c.mu.Unlock()
		// Blocks are immutable; no rewrite on duplicate Set.
		return
	}

	size := int64(len(b))
	absPath := filepath.Join(c.rootDir, c.encodeKeyToRelPath(key))

	for c.currentSize+size > c.maxSize {
		if c.lruTail == nil {
			break
		}
		c.evictOne()
	}

	c.mu.Unlock()

	// Best effort: if all write slots are busy, skip caching this block.
	if !c.writeSem.TryAcquire(1) {
		return
	}

	// The index is only updated after the write completes. Concurrent Gets
	// miss and hit the backend again during warm-up, which is acceptable.
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.writeSem.Release(1)

		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return
		}

		tmpFile, err := os.CreateTemp(filepath.Dir(absPath), "tmp-blk-*")
		if err != nil {
			return
		}
		tmpName := tmpFile.Name()

		defer func() {
			if _, err := os.Stat(tmpName); err == nil {
				_ = os.Remove(tmpName)
			}
		}()

		if _, err := tmpFile.Write(b); err != nil {
			_ = tmpFile.Close()
			return
		}
		if err := tmpFile.Close(); err != nil {
			return
		}

		if err := os.Rename(tmpName, absPath); err != nil {
			return
		}

		c.mu.Lock()
		defer c.mu.Unlock()

		// Recheck capacity in case other writes landed meanwhile.
		for c.currentSize+size > c.maxSize {
			if c.lruTail == nil {
				break
			}
			c.evictOne()
		}

		c.addToLRU(key, absPath, size)
	}()
}

func (c *DiskBlockCache) Invalidate(predicate func(key Key) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*lruEntry
	for k, ent := range c.items {
		if predicate(k) {
			toRemove = append(toRemove, ent)
		}
	}

	for _, ent := range toRemove {
		_ = os.Remove(ent.filePath)
		c.removeEntry(ent)
	}
}

// Close waits for all background writes to complete.
func (c *DiskBlockCache) Close() error {
	c.wg.Wait()
	return nil
}

func (c *DiskBlockCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Internal LRU helpers (must hold lock)

func (c *DiskBlockCache) addToLRU(key Key, path string, size int64) {
	ent := &lruEntry{
		key:      key,
		filePath: path,
		size:     size,
	}
	c.items[key] = ent
	c.currentSize += size

	if c.lruHead == nil {
		c.lruHead = ent
		c.lruTail = ent
	} else {
		ent.next = c.lruHead
		c.lruHead.prev = ent
		c.lruHead = ent
	}
}

func (c *DiskBlockCache) moveToFront(ent *lruEntry) {
	if c.lruHead == ent {
		return
	}

	if ent.prev != nil {
		ent.prev.next = ent.next
	}
	if ent.next != nil {
		ent.next.prev = ent.prev
	}
	if c.lruTail == ent {
		c.lruTail = ent.prev
	}

	ent.next = c.lruHead
	ent.prev = nil
	if c.lruHead != nil {
		c.lruHead.prev = ent
	}
	c.lruHead = ent
	if c.lruTail == nil {
		c.lruTail = ent
	}
}

func (c *DiskBlockCache) removeEntry(ent *lruEntry) {
	if ent.prev != nil {
		ent.prev.next = ent.next
	} else {
		c.lruHead = ent.next
	}

	if ent.next != nil {
		ent.next.prev = ent.prev
	} else {
		c.lruTail = ent.prev
	}

	delete(c.items, ent.key)
	c.currentSize -= ent.size
}

func (c *DiskBlockCache) evictOne() {
	if c.lruTail == nil {
		return
	}
	_ = os.Remove(c.lruTail.filePath)
	c.removeEntry(c.lruTail)
}
