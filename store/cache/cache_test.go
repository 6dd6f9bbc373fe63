package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Items []string `json:"items"`
	Total int64    `json:"total"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	srv := miniredis.RunT(t)
	config := DefaultConfig()
	config.Addr = srv.Addr()
	c, err := NewRedisCache(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}

func TestPutGetRoundTrip(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	key := GoalsPageKey(1, 1, 20, "-", "-", "-")
	in := testPayload{Items: []string{"a", "b"}, Total: 2}
	c.Put(ctx, 1, key, &in, 30*time.Second)

	var out testPayload
	require.True(t, c.Get(ctx, key, &out))
	require.Equal(t, in, out)

	// Entry carries the TTL; the tag set outlives it by the slack.
	require.Equal(t, 30*time.Second, srv.TTL(key))
	require.True(t, srv.Exists(UserTagKey(1)))
	require.Equal(t, 30*time.Second+c.tagSlack, srv.TTL(UserTagKey(1)))

	members, err := srv.SMembers(UserTagKey(1))
	require.NoError(t, err)
	require.Contains(t, members, key)
}

func TestGetMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var out testPayload
	require.False(t, c.Get(context.Background(), "goals:u=9:p=1:ps=20:s=-:st=-:pr=-", &out))
}

func TestGetCorruptEntryDegradesToMiss(t *testing.T) {
	c, srv := newTestCache(t)

	require.NoError(t, srv.Set("broken", "not json {"))
	var out testPayload
	require.False(t, c.Get(context.Background(), "broken", &out))
}

func TestInvalidateUser(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	page1 := GoalsPageKey(1, 1, 20, "-", "-", "-")
	page2 := GoalsPageKey(1, 2, 20, "-", "-", "-")
	other := GoalsPageKey(2, 1, 20, "-", "-", "-")
	c.Put(ctx, 1, page1, &testPayload{Total: 1}, 30*time.Second)
	c.Put(ctx, 1, page2, &testPayload{Total: 1}, 30*time.Second)
	c.Put(ctx, 2, other, &testPayload{Total: 1}, 30*time.Second)

	c.InvalidateUser(ctx, 1)

	var out testPayload
	require.False(t, c.Get(ctx, page1, &out))
	require.False(t, c.Get(ctx, page2, &out))
	require.False(t, srv.Exists(UserTagKey(1)))

	// Other users' entries are untouched.
	require.True(t, c.Get(ctx, other, &out))
}

func TestTagSetSurvivesRepopulation(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	key := GoalsPageKey(1, 1, 20, "-", "-", "-")
	c.Put(ctx, 1, key, &testPayload{Total: 1}, 30*time.Second)
	c.InvalidateUser(ctx, 1)

	// A populate after invalidation must be tracked again.
	c.Put(ctx, 1, key, &testPayload{Total: 2}, 30*time.Second)
	members, err := srv.SMembers(UserTagKey(1))
	require.NoError(t, err)
	require.Contains(t, members, key)
}

func TestDegradationWhenStoreUnavailable(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()
	srv.Close()

	var out testPayload
	require.NotPanics(t, func() {
		require.False(t, c.Get(ctx, "any", &out))
		c.Put(ctx, 1, "any", &testPayload{Total: 1}, 30*time.Second)
		c.InvalidateUser(ctx, 1)
	})
}

func TestPutAbandonedOnCanceledContext(t *testing.T) {
	c, srv := newTestCache(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	key := GoalsPageKey(1, 1, 20, "-", "-", "-")
	c.Put(ctx, 1, key, &testPayload{Total: 1}, 30*time.Second)

	// No partial state: neither the entry nor the tag membership landed.
	require.False(t, srv.Exists(key))
	require.False(t, srv.Exists(UserTagKey(1)))
}

func TestNopCache(t *testing.T) {
	c := NewNopCache()
	ctx := context.Background()

	c.Put(ctx, 1, "k", &testPayload{Total: 1}, time.Second)
	var out testPayload
	require.False(t, c.Get(ctx, "k", &out))
	c.InvalidateUser(ctx, 1)
	require.NoError(t, c.Close())
}
