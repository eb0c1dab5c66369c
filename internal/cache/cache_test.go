package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

type entry struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

func TestRedisStore_GetSet(t *testing.T) {
	s, mr := setupTestRedis(t)
	ctx := context.Background()

	var got entry
	found, err := s.GetJSON(ctx, "ecdash:x", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SetJSON(ctx, "ecdash:x", entry{Name: "Concrete", Total: 100}, time.Minute))
	assert.True(t, mr.Exists("ecdash:x"))
	assert.Equal(t, time.Minute, mr.TTL("ecdash:x"))

	found, err = s.GetJSON(ctx, "ecdash:x", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entry{Name: "Concrete", Total: 100}, got)

	assert.Equal(t, Stats{Hits: 1, Misses: 1}, s.Stats())

	mr.FastForward(2 * time.Minute)
	found, err = s.GetJSON(ctx, "ecdash:x", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_CorruptEntry(t *testing.T) {
	s, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("ecdash:bad", "{not json"))

	var got entry
	found, err := s.GetJSON(context.Background(), "ecdash:bad", &got)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestInvalidateProject(t *testing.T) {
	s, mr := setupTestRedis(t)
	ctx := context.Background()

	for _, k := range []string{
		BreakdownKey("p1", 1), BreakdownKey("p1", 2), TreeKey("p1", 1),
		BreakdownKey("p10", 1), CatalogKey("materials"),
	} {
		require.NoError(t, s.SetJSON(ctx, k, 1, 0))
	}

	require.NoError(t, InvalidateProject(ctx, s, "p1"))

	assert.False(t, mr.Exists("ecdash:breakdown:p1:1"))
	assert.False(t, mr.Exists("ecdash:breakdown:p1:2"))
	assert.False(t, mr.Exists("ecdash:tree:p1:1"))
	assert.True(t, mr.Exists("ecdash:breakdown:p10:1"))
	assert.True(t, mr.Exists("ecdash:catalog:materials"))
}

func TestInvalidateProject_ColonInID(t *testing.T) {
	s, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, s.SetJSON(ctx, BreakdownKey("a", 1), 1, 0))
	require.NoError(t, s.SetJSON(ctx, BreakdownKey("a:1", 2), 1, 0))
	require.NoError(t, s.SetJSON(ctx, TreeKey("a:1", 2), 1, 0))

	require.NoError(t, InvalidateProject(ctx, s, "a"))

	var v int
	found, err := s.GetJSON(ctx, BreakdownKey("a", 1), &v)
	require.NoError(t, err)
	assert.False(t, found)
	for _, k := range []string{BreakdownKey("a:1", 2), TreeKey("a:1", 2)} {
		found, err := s.GetJSON(ctx, k, &v)
		require.NoError(t, err)
		assert.True(t, found, k)
	}
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "ecdash:catalog:elements", CatalogKey("elements"))
	assert.Equal(t, "ecdash:breakdown:p1:3", BreakdownKey("p1", 3))
	assert.Equal(t, "ecdash:tree:p1:3", TreeKey("p1", 3))
	assert.Equal(t, "ecdash:breakdown:a%3A1:2", BreakdownKey("a:1", 2))
	assert.NotEqual(t, BreakdownKey("a:1", 2), BreakdownKey("a", 12))
}

func TestNop(t *testing.T) {
	var n Nop
	var got entry
	found, err := n.GetJSON(context.Background(), "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, n.SetJSON(context.Background(), "k", got, time.Minute))
	assert.Equal(t, int64(1), n.Stats().Misses)
}
