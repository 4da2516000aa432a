package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gunvolt24/techshop/internal/storage/file"
	"github.com/stretchr/testify/require"
)

func TestKVStore_RoundTripAndPersistence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := file.NewKVStore(dir)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "profile-1", "techshop_cart")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Put(ctx, "profile-1", "techshop_cart", []byte(`[{"id":1}]`)))

	// новый экземпляр над тем же каталогом видит данные
	reopened, err := file.NewKVStore(dir)
	require.NoError(t, err)
	v, ok, err := reopened.Get(ctx, "profile-1", "techshop_cart")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[{"id":1}]`, string(v))

	require.NoError(t, s.Delete(ctx, "profile-1", "techshop_cart"))
	require.NoError(t, s.Delete(ctx, "profile-1", "techshop_cart"))
	_, ok, err = s.Get(ctx, "profile-1", "techshop_cart")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKVStore_EscapesNames(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := file.NewKVStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "../evil", "a/b", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "..%2Fevil", entries[0].Name())

	_, err = os.Stat(filepath.Join(dir, "..%2Fevil", "a%2Fb.json"))
	require.NoError(t, err)
}

func TestKVStore_NoTempLeftovers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := file.NewKVStore(dir)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Put(ctx, "p", "k", []byte("v")))
	}
	entries, err := os.ReadDir(filepath.Join(dir, "p"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "k.json", entries[0].Name())
}

func TestNewKVStore_EmptyDir(t *testing.T) {
	_, err := file.NewKVStore("")
	require.Error(t, err)
}

func TestKVStore_RejectsDotNames(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	dir := filepath.Join(root, "data")

	s, err := file.NewKVStore(dir)
	require.NoError(t, err)

	for _, tc := range []struct{ ns, key string }{
		{"..", "techshop_cart"},
		{".", "techshop_cart"},
		{"", "techshop_cart"},
		{"profile-1", ".."},
		{"profile-1", "."},
	} {
		require.ErrorIs(t, s.Put(ctx, tc.ns, tc.key, []byte(`[]`)), file.ErrInvalidName, "%q/%q", tc.ns, tc.key)
		_, _, err := s.Get(ctx, tc.ns, tc.key)
		require.ErrorIs(t, err, file.ErrInvalidName)
		require.ErrorIs(t, s.Delete(ctx, tc.ns, tc.key), file.ErrInvalidName)
	}

	// наружу ничего не записано
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "data", entries[0].Name())

	// имена с точками внутри допустимы
	require.NoError(t, s.Put(ctx, "..profile", "a.b", []byte(`[]`)))
}
