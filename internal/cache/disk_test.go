package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskCache_SetGet(t *testing.T) {
	dir := t.TempDir()
	c, err := NewDiskBlockCache(DiskCacheConfig{RootDir: dir, MaxSizeBytes: 1 << 20})
	require.NoError(t, err)

	ctx := context.Background()
	key := Key{Blob: "datasets/GSE1234.esd", Block: 3}
	payload := []byte("block payload")

	c.Set(ctx, key, payload)
	require.NoError(t, c.Close()) // waits for the background write

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, payload, got)

	_, ok = c.Get(ctx, Key{Blob: "datasets/GSE1234.esd", Block: 4})
	assert.False(t, ok)
}

func TestDiskCache_RebuildIndexOnStartup(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	key := Key{Blob: "a/b.esd", Block: 7}

	c1, err := NewDiskBlockCache(DiskCacheConfig{RootDir: dir, MaxSizeBytes: 1 << 20})
	require.NoError(t, err)
	c1.Set(ctx, key, []byte("persisted"))
	require.NoError(t, c1.Close())

	// A fresh cache over the same directory finds the block again.
	c2, err := NewDiskBlockCache(DiskCacheConfig{RootDir: dir, MaxSizeBytes: 1 << 20})
	require.NoError(t, err)
	got, ok := c2.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, []byte("persisted"), got)
}

func TestDiskCache_Invalidate(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c, err := NewDiskBlockCache(DiskCacheConfig{RootDir: dir, MaxSizeBytes: 1 << 20})
	require.NoError(t, err)

	c.Set(ctx, Key{Blob: "x.esd", Block: 0}, []byte("aa"))
	c.Set(ctx, Key{Blob: "y.esd", Block: 0}, []byte("bb"))
	require.NoError(t, c.Close())

	c.Invalidate(func(k Key) bool { return k.Blob == "x.esd" })

	_, ok := c.Get(ctx, Key{Blob: "x.esd", Block: 0})
	assert.False(t, ok)
	_, ok = c.Get(ctx, Key{Blob: "y.esd", Block: 0})
	assert.True(t, ok)
}

func TestDiskCache_Eviction(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c, err := NewDiskBlockCache(DiskCacheConfig{RootDir: dir, MaxSizeBytes: 25})
	require.NoError(t, err)

	for i := range 4 {
		c.Set(ctx, Key{Blob: "big.esd", Block: uint64(i)}, make([]byte, 10))
		// Let each background write land before the next Set sizes up.
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, c.Close())

	c.mu.Lock()
	size := c.currentSize
	c.mu.Unlock()
	assert.LessOrEqual(t, size, int64(25))
}
