package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/splitledger/internal/usecase"
)

func TestCache_RoundTrip(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	rules := []byte(`[{"id":"01J9ZKRULE","position":1}]`)
	require.NoError(t, cache.Set(ctx, "rules:active", rules, time.Minute))

	got, err := cache.Get(ctx, "rules:active")
	require.NoError(t, err)
	assert.Equal(t, rules, got)
	assert.True(t, mr.Exists(cacheNamespace+"rules:active"), "keys: %v", mr.Keys())
	assert.Equal(t, time.Minute, mr.TTL(cacheNamespace+"rules:active"))
}

func TestCache_MissingAndExpiredKeys(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	_, err := cache.Get(ctx, "rules:active")
	assert.ErrorIs(t, err, usecase.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "rules:active", []byte("[]"), time.Second))
	mr.FastForward(time.Minute)

	_, err = cache.Get(ctx, "rules:active")
	assert.ErrorIs(t, err, usecase.ErrCacheMiss)
}

func TestCache_NoTTLKeepsKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewCache(client)

	require.NoError(t, cache.Set(context.Background(), "rules:active", []byte("[]"), 0))
	mr.FastForward(24 * time.Hour)

	_, err := cache.Get(context.Background(), "rules:active")
	assert.NoError(t, err)
}

func TestCache_Delete(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "rules:active", []byte("[]"), time.Minute))
	require.NoError(t, cache.Delete(ctx, "rules:active"))
	require.NoError(t, cache.Delete(ctx, "rules:active"), "deleting twice is fine")

	_, err := cache.Get(ctx, "rules:active")
	assert.ErrorIs(t, err, usecase.ErrCacheMiss)
}

func TestCache_ServerDown(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewCache(client)
	mr.Close()

	_, err := cache.Get(context.Background(), "rules:active")
	require.Error(t, err)
	assert.NotErrorIs(t, err, usecase.ErrCacheMiss)
	assert.ErrorContains(t, err, "cache get rules:active")

	assert.ErrorContains(t, cache.Set(context.Background(), "rules:active", nil, time.Minute), "cache set")
}
