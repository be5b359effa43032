package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sakury/vidora/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStoreTest(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	return NewRedisStore(rdb).(*RedisStore), mr
}

func TestRedisStore_SetGet(t *testing.T) {
	s, _ := newRedisStoreTest(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "vidora:k", []byte("v"), time.Minute))

	got, err := s.Get(ctx, "vidora:k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestRedisStore_GetMissing(t *testing.T) {
	s, _ := newRedisStoreTest(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRedisStore_TTLEviction(t *testing.T) {
	s, mr := newRedisStoreTest(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 10*time.Minute))
	assert.Equal(t, 10*time.Minute, mr.TTL("k"))

	mr.FastForward(10*time.Minute + time.Second)

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRedisStore_DeleteIdempotent(t *testing.T) {
	s, _ := newRedisStoreTest(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRedisStore_Unavailable(t *testing.T) {
	s, mr := newRedisStoreTest(t)
	mr.Close()

	_, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrNotFound)
}

func TestConnect(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := Connect(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	_, err = Connect(context.Background(), "not a url")
	assert.Error(t, err)
}
