package blob

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixvault/pixvault/internal/logger"
)

func newDiskStore(t *testing.T) *DiskStore {
	t.Helper()

	store, err := NewDiskStore(DiskConfig{
		Directory:  t.TempDir(),
		PublicBase: "/uploads/",
	}, logger.NewNop())
	require.NoError(t, err)
	return store
}

func TestDiskStorePutGetDelete(t *testing.T) {
	store := newDiskStore(t)
	ctx := context.Background()

	content := []byte("fake image bytes")
	require.NoError(t, store.Put(ctx, "photo.jpg", strings.NewReader(string(content)), int64(len(content))))

	got, err := store.Get(ctx, "photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	exists, err := store.Exists(ctx, "photo.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, "photo.jpg"))

	exists, err = store.Exists(ctx, "photo.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDiskStorePutOverwrites(t *testing.T) {
	store := newDiskStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a.jpg", strings.NewReader("first"), 5))
	require.NoError(t, store.Put(ctx, "a.jpg", strings.NewReader("second"), 6))

	got, err := store.Get(ctx, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestDiskStoreDeleteMissingIsNotAnError(t *testing.T) {
	store := newDiskStore(t)
	assert.NoError(t, store.Delete(context.Background(), "never-written.jpg"))
}

func TestDiskStoreIgnoresDirectoryComponents(t *testing.T) {
	store := newDiskStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "../../escape.jpg", strings.NewReader("x"), 1))

	exists, err := store.Exists(ctx, "escape.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = store.Get(ctx, filepath.Join("..", "escape.jpg"))
	assert.NoError(t, err)
}

func TestDiskStoreURL(t *testing.T) {
	store := newDiskStore(t)
	assert.Equal(t, "/uploads/a.jpg", store.URL("a.jpg"))
	assert.Equal(t, "/uploads/b.jpg", store.URL("nested/b.jpg"))
}
