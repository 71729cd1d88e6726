package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func substrates(t *testing.T) map[string]Storage {
	t.Helper()
	ctx := context.Background()

	file, err := NewFile(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	lite, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { lite.Close() })

	mr := miniredis.RunT(t)
	rdb := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { rdb.Close() })

	return map[string]Storage{
		"memory": NewMemory(),
		"file":   file,
		"sqlite": lite,
		"redis":  rdb,
	}
}

func TestStorage_GetSet(t *testing.T) {
	ctx := context.Background()

	for name, s := range substrates(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Ping(ctx))

			_, ok, err := s.Get(ctx, "projects")
			require.NoError(t, err)
			assert.False(t, ok, "unset key must report ok=false")

			require.NoError(t, s.Set(ctx, "projects", `[{"id":"1"}]`))
			v, ok, err := s.Get(ctx, "projects")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"id":"1"}]`, v)

			require.NoError(t, s.Set(ctx, "projects", `[]`))
			v, _, err = s.Get(ctx, "projects")
			require.NoError(t, err)
			assert.Equal(t, `[]`, v)

			require.NoError(t, s.Set(ctx, "other", ""))
			v, ok, err = s.Get(ctx, "other")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "", v)
		})
	}
}

func TestFile_KeyCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)

	require.NoError(t, f.Set(context.Background(), "../escape", "x"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "escape.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	a, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, a.Set(ctx, "projects", "[1]"))

	b, err := NewFile(dir)
	require.NoError(t, err)
	v, ok, err := b.Get(ctx, "projects")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[1]", v)
}

func TestRedis_UsesPrefixedKey(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer r.Close()

	require.NoError(t, r.Set(context.Background(), "projects", "[]"))

	got, err := mr.Get("cahier:projects")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
	assert.Equal(t, 0, int(mr.TTL("cahier:projects")))
}

func TestRedis_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	defer r.Close()
	mr.Close()

	_, _, err := r.Get(context.Background(), "projects")
	assert.Error(t, err)
	assert.Error(t, r.Ping(context.Background()))
}
