package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *RedisBackend {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Ping(context.Background()).Err())

	b := NewRedisBackend(client)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func setupTestSQLite(t *testing.T) *SQLiteBackend {
	b, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "avan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func backends(t *testing.T) map[string]Backend {
	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"redis":  setupTestRedis(t),
		"sqlite": setupTestSQLite(t),
	}
}

func TestBackends_GetSet(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := b.For("user-1")

			_, ok, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, "project_1_code", "<h1>Hi</h1>"))
			require.NoError(t, s.Set(ctx, "project_1_code", "<h1>Bye</h1>"))

			v, ok, err := s.Get(ctx, "project_1_code")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "<h1>Bye</h1>", v)

			// empty values are real values
			require.NoError(t, s.Set(ctx, "empty", ""))
			v, ok, err = s.Get(ctx, "empty")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "", v)

			assert.ErrorIs(t, s.Set(ctx, "  ", "x"), ErrEmptyKey)
		})
	}
}

func TestBackends_NamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a := b.For("alice")
			bob := b.For("bob")

			require.NoError(t, a.Set(ctx, "avan_language", "he"))
			require.NoError(t, a.Set(ctx, "savedProjects", "[]"))
			require.NoError(t, bob.Set(ctx, "avan_language", "fr"))

			v, _, err := a.Get(ctx, "avan_language")
			require.NoError(t, err)
			assert.Equal(t, "he", v)

			keys, err := a.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"avan_language", "savedProjects"}, keys)

			keys, err = bob.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"avan_language"}, keys)

			users, err := b.Users(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"alice", "bob"}, users)
		})
	}
}

func TestBackends_UserIDPrefixesDoNotOverlap(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.For("u1").Set(ctx, "avan_language", "he"))
			require.NoError(t, b.For("u1:x").Set(ctx, "savedProjects", "[]"))

			keys, err := b.For("u1").Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"avan_language"}, keys)

			_, ok, err := b.For("u1").Get(ctx, "x:savedProjects")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestValidKey(t *testing.T) {
	assert.True(t, ValidKey("savedProjects"))
	assert.False(t, ValidKey(""))
	assert.False(t, ValidKey(" \t\n"))
}

func TestBackends_Delete(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := b.For("u")
			require.NoError(t, s.Set(ctx, "k", "v"))
			require.NoError(t, s.Delete(ctx, "k"))
			require.NoError(t, s.Delete(ctx, "never-set"))

			_, ok, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}
