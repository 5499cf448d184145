// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package oauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/signon/internal/platform/constants"
)

// RedisStateStore implements [StateStore] using Redis keys with a TTL.
type RedisStateStore struct {
	client *redis.Client
}

// NewRedisStateStore creates a new Redis-backed StateStore.
func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

func stateKey(provider, state string) string {
	return constants.RedisPrefixOAuthState + provider + ":" + state
}

/*
Save stores a state value for provider with its TTL.

Parameters:
  - ctx: context.Context
  - provider: string
  - state: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (store *RedisStateStore) Save(ctx context.Context, provider, state string, ttl time.Duration) error {
	if err := store.client.Set(ctx, stateKey(provider, state), provider, ttl).Err(); err != nil {
		return fmt.Errorf("redis_oauth_state_set_failed: %w", err)
	}
	return nil
}

/*
Consume atomically reads and deletes a state value.

Description: GETDEL guarantees that two callbacks racing on the same state
cannot both succeed.

Returns:
  - bool: Whether the state existed for provider
  - error: Connectivity errors
*/
func (store *RedisStateStore) Consume(ctx context.Context, provider, state string) (bool, error) {
	stored, err := store.client.GetDel(ctx, stateKey(provider, state)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis_oauth_state_getdel_failed: %w", err)
	}

	return stored == provider, nil
}
