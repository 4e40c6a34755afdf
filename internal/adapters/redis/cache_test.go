package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft/internal/adapters/redis"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/aretw0/graft/pkg/ports/tests"
)

var _ ports.ResultCache = (*redis.Cache)(nil)

func setup(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *redis.Cache) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redis.NewFromClient(client, opts...)
}

func TestRedisCache_Contract(t *testing.T) {
	_, cache := setup(t)
	tests.ResultCacheContractTest(t, cache)
}

func TestRedisCache_PrefixAndTTL(t *testing.T) {
	mr, cache := setup(t, redis.WithPrefix("test:"), redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "abc", []byte("v")))
	assert.True(t, mr.Exists("test:abc"))
	assert.Equal(t, time.Minute, mr.TTL("test:abc"))

	mr.FastForward(2 * time.Minute)
	_, ok, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	cache := redis.NewFromClient(client)

	ctx := context.Background()
	require.NoError(t, cache.Ping(ctx))

	mr.Close()
	_, _, err = cache.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, cache.Ping(ctx))
}
