// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package oauth_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/signon/internal/users/oauth"
)

// redisClient connects to TEST_REDIS_URL or skips the test.
func redisClient(t *testing.T) *redis.Client {
	t.Helper()

	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	options, err := redis.ParseURL(redisURL)
	require.NoError(t, err)

	client := redis.NewClient(options)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

/*
TestRedisStateStore_SaveConsume verifies single use, provider binding and expiry.
*/
func TestRedisStateStore_SaveConsume(t *testing.T) {
	ctx := context.Background()
	store := oauth.NewRedisStateStore(redisClient(t))

	require.NoError(t, store.Save(ctx, "discord", "state-1", time.Minute))

	found, err := store.Consume(ctx, "google", "state-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(ctx, "discord", "state-2", time.Minute))

	found, err = store.Consume(ctx, "discord", "state-2")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.Consume(ctx, "discord", "state-2")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(ctx, "discord", "state-3", 50*time.Millisecond))
	time.Sleep(200 * time.Millisecond)

	found, err = store.Consume(ctx, "discord", "state-3")
	require.NoError(t, err)
	assert.False(t, found)
}
