package docstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Store = (*SQLiteStore)(nil)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Save(ctx, "scene", []byte(`{"nodes":{}}`)))
	got, err := s.Load(ctx, "scene")
	require.NoError(t, err)
	assert.Equal(t, `{"nodes":{}}`, string(got))

	require.NoError(t, s.Save(ctx, "scene", []byte(`{"nodes":{"a":{}}}`)), "saving again replaces")
	got, err = s.Load(ctx, "scene")
	require.NoError(t, err)
	assert.Equal(t, `{"nodes":{"a":{}}}`, string(got))

	_, err = s.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, s.Save(ctx, "", nil))
}

func TestSQLiteStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	stamp := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return stamp }

	require.NoError(t, s.Save(ctx, "b", []byte("22")))
	require.NoError(t, s.Save(ctx, "a", []byte("1")))

	infos, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Info{
		{Name: "a", Size: 1, UpdatedAt: stamp},
		{Name: "b", Size: 2, UpdatedAt: stamp},
	}, infos)

	require.NoError(t, s.Delete(ctx, "a"))
	assert.ErrorIs(t, s.Delete(ctx, "a"), ErrNotFound)
	infos, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "b", infos[0].Name)
}

func TestSQLiteStore_PersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "docs.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "scene", []byte("{}")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load(ctx, "scene")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(got))
}
