package registry_test

import (
	"context"
	"testing"

	"github.com/DanielPopoola/ipn-relay/internal/infrastructure/registry"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisSource(t *testing.T) (*registry.RedisSource, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return registry.NewRedisSource(client, "ipn:destinations"), mr
}

func TestRedisSource_Lookup(t *testing.T) {
	src, mr := setupRedisSource(t)
	mr.HSet("ipn:destinations", "pk_live_1", "https://shop.example/ipn")
	ctx := context.Background()

	url, found, err := src.Lookup(ctx, "pk_live_1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "https://shop.example/ipn", url)

	_, found, err = src.Lookup(ctx, "pk_other")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisSource_ConnectionFailureIsLoadError(t *testing.T) {
	src, mr := setupRedisSource(t)
	mr.Close()

	_, _, err := src.Lookup(context.Background(), "pk_live_1")

	require.Error(t, err)
}

func TestRegistry_RedisOutageResolvesAsUnknown(t *testing.T) {
	src, mr := setupRedisSource(t)
	activity := &recordingLog{}
	r := registry.New(src, activity, testLogger())
	mr.Close()

	_, err := r.Resolve(context.Background(), "pk_live_1")

	require.Error(t, err)
	require.Len(t, activity.entries, 1)
}
