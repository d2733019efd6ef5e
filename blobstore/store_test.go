package blobstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "people/a.jsonl.zst", []byte("a")))
	require.NoError(t, s.Put(ctx, "people/b.jsonl.zst", []byte("bb")))
	require.NoError(t, s.Put(ctx, "book/c.jsonl.zst", []byte("ccc")))

	data, err := s.Get(ctx, "people/b.jsonl.zst")
	require.NoError(t, err)
	assert.Equal(t, []byte("bb"), data)

	// Overwrite
	require.NoError(t, s.Put(ctx, "people/b.jsonl.zst", []byte("b2")))
	data, err = s.Get(ctx, "people/b.jsonl.zst")
	require.NoError(t, err)
	assert.Equal(t, []byte("b2"), data)

	names, err := s.List(ctx, "people/")
	require.NoError(t, err)
	assert.Equal(t, []string{"people/a.jsonl.zst", "people/b.jsonl.zst"}, names)

	names, err = s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, names, 3)

	require.NoError(t, s.Delete(ctx, "people/a.jsonl.zst"))
	require.NoError(t, s.Delete(ctx, "people/a.jsonl.zst"), "deleting twice is not an error")

	_, err = s.Get(ctx, "people/a.jsonl.zst")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStore_CopiesData(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	buf := []byte("abc")
	require.NoError(t, s.Put(ctx, "x", buf))
	buf[0] = 'z'

	data, err := s.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)
}

func TestLocalStore(t *testing.T) {
	testStore(t, NewLocalStore(t.TempDir()))
}

func TestLocalStore_MissingRoot(t *testing.T) {
	s := NewLocalStore(filepath.Join(t.TempDir(), "does-not-exist"))

	names, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_CanceledContext(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Put(ctx, "x", []byte("1")), context.Canceled)
	_, err := s.Get(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
