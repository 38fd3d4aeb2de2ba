package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Lifecycle(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	name := "cohort-001.esd"
	data := []byte("hello world, this is a test blob for exprset")

	w, err := store.Create(ctx, name)
	require.NoError(t, err)

	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.NoError(t, w.Close())

	blob, err := store.Open(ctx, name)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err = blob.ReadAt(ctx, buf, 6) // "world"
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))

	rangeReader, err := blob.ReadRange(ctx, 13, 4) // "this"
	require.NoError(t, err)
	rangeContent, err := io.ReadAll(rangeReader)
	require.NoError(t, err)
	require.NoError(t, rangeReader.Close())
	require.Equal(t, "this", string(rangeContent))

	name2 := "cohort-002.esd"
	require.NoError(t, store.Put(ctx, name2, []byte("more")))

	blobs, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{name, name2}, blobs)

	require.NoError(t, store.Delete(ctx, name))

	blobsAfter, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{name2}, blobsAfter)

	_, err = store.Open(ctx, name)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_CreateIsAtomic(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	ctx := context.Background()

	w, err := store.Create(ctx, "pending.esd")
	require.NoError(t, err)

	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)

	// Before Close the target must not exist.
	_, err = os.Stat(filepath.Join(dir, "pending.esd"))
	require.True(t, os.IsNotExist(err))

	require.NoError(t, w.Close())

	_, err = os.Stat(filepath.Join(dir, "pending.esd"))
	require.NoError(t, err)
}

func TestLocalStore_ReadRangeBoundaries(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	data := []byte("0123456789")
	require.NoError(t, store.Put(ctx, "boundary.bin", data))

	blob, err := store.Open(ctx, "boundary.bin")
	require.NoError(t, err)
	defer blob.Close()

	t.Run("full range", func(t *testing.T) {
		r, err := blob.ReadRange(ctx, 0, 10)
		require.NoError(t, err)
		content, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.True(t, bytes.Equal(data, content))
	})

	t.Run("clipped at end", func(t *testing.T) {
		r, err := blob.ReadRange(ctx, 8, 5)
		require.NoError(t, err)
		content, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.Equal(t, "89", string(content))
	})

	t.Run("offset past end", func(t *testing.T) {
		r, err := blob.ReadRange(ctx, 20, 5)
		require.NoError(t, err)
		content, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.Empty(t, content)
	})
}

func TestLocalStore_NestedNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "studies/gse1/data.esd", []byte("a")))
	require.NoError(t, store.Put(ctx, "studies/gse2/data.esd", []byte("b")))
	require.NoError(t, store.Put(ctx, "manifest.json", []byte("c")))

	names, err := store.List(ctx, "studies/")
	require.NoError(t, err)
	assert.Equal(t, []string{"studies/gse1/data.esd", "studies/gse2/data.esd"}, names)
}

func TestReadAll(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	data := []byte("the full content of the blob")

	require.NoError(t, store.Put(ctx, "whole.bin", data))

	got, err := ReadAll(ctx, store, "whole.bin")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = ReadAll(ctx, store, "absent.bin")
	assert.ErrorIs(t, err, ErrNotFound)
}
