package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a.esd", []byte("alpha")))

	w, err := store.Create(ctx, "b.esd")
	require.NoError(t, err)
	_, err = w.Write([]byte("beta"))
	require.NoError(t, err)

	// Not visible until Close.
	_, err = store.Open(ctx, "b.esd")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, w.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.esd", "b.esd"}, names)

	data, err := ReadAll(ctx, store, "b.esd")
	require.NoError(t, err)
	assert.Equal(t, "beta", string(data))

	require.NoError(t, store.Delete(ctx, "a.esd"))
	_, err = store.Open(ctx, "a.esd")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_OpenSnapshotsContent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "x", []byte("before")))

	blob, err := store.Open(ctx, "x")
	require.NoError(t, err)
	defer blob.Close()

	require.NoError(t, store.Put(ctx, "x", []byte("after!")))

	buf := make([]byte, 6)
	_, err = blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "before", string(buf))
}
