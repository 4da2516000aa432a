package memory_test

import (
	"context"
	"testing"

	"github.com/Gunvolt24/techshop/internal/storage/memory"
	"github.com/stretchr/testify/require"
)

func TestKVStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memory.NewKVStore()

	_, ok, err := s.Get(ctx, "p1", "k")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Put(ctx, "p1", "k", []byte("v1")))
	require.NoError(t, s.Put(ctx, "p1", "k", []byte("v2")))

	v, ok, err := s.Get(ctx, "p1", "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v2"), v)

	// пространства профилей не пересекаются
	_, ok, _ = s.Get(ctx, "p2", "k")
	require.False(t, ok)

	require.NoError(t, s.Delete(ctx, "p1", "k"))
	require.NoError(t, s.Delete(ctx, "p1", "k"))
	_, ok, _ = s.Get(ctx, "p1", "k")
	require.False(t, ok)
}

func TestKVStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := memory.NewKVStore()

	in := []byte("abc")
	require.NoError(t, s.Put(ctx, "p", "k", in))
	in[0] = 'x'

	out, _, _ := s.Get(ctx, "p", "k")
	require.Equal(t, []byte("abc"), out)
	out[0] = 'y'

	again, _, _ := s.Get(ctx, "p", "k")
	require.Equal(t, []byte("abc"), again)
}
