package pairstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const pairKeyPrefix = "pair:"

// RedisStore implements PairStore on Redis so registrations survive restarts.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed pair store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func pairKey(userID string) string {
	return pairKeyPrefix + userID
}

// SetPair stores the pair for a user, replacing any previous one. Pairs have
// no expiry: a registration stays until overwritten.
func (s *RedisStore) SetPair(ctx context.Context, userID string, pair Pair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("failed to marshal pair: %w", err)
	}

	if err := s.client.Set(ctx, pairKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save pair: %w", err)
	}
	return nil
}

// GetPair returns the user's registered pair, or nil if none.
func (s *RedisStore) GetPair(ctx context.Context, userID string) (*Pair, error) {
	data, err := s.client.Get(ctx, pairKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pair: %w", err)
	}

	var pair Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pair: %w", err)
	}
	return &pair, nil
}

// Health checks if Redis is reachable.
func (s *RedisStore) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
