package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StoredResponse is a replayable response captured for an idempotency key.
type StoredResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// IdempotencyStore remembers responses to mutation requests so a retried
// request with the same key replays the original outcome instead of running
// the mutation twice.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

func (s *IdempotencyStore) key(k string) string {
	return "idempotency:" + k
}

// Get returns the stored response for a key, or nil when the key is unseen.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*StoredResponse, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("idempotency get: %w", err)
	}

	var resp StoredResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return &resp, nil
}

// Save stores a response under a key for the configured TTL.
func (s *IdempotencyStore) Save(ctx context.Context, key string, resp *StoredResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("idempotency encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency save: %w", err)
	}
	return nil
}
