package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// pendingMarker is stored while the first request for a key is in flight.
const pendingMarker = ""

// IdempotencyStore maps a client's Idempotency-Key to the service request
// it produced. Key format: idem:<client_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

// Claim reserves the key with SETNX. When another request already holds it
// the bound id is returned, or "" if that request has not finished.
func (s *IdempotencyStore) Claim(ctx context.Context, clientID, key string) (string, bool, error) {
	k := s.key(clientID, key)
	ok, err := s.client.SetNX(ctx, k, pendingMarker, s.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("idempotency claim: %w", err)
	}
	if ok {
		return "", true, nil
	}

	id, err := s.client.Get(ctx, k).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET; treat as in flight
			return "", false, nil
		}
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, false, nil
}

// Bind records the service request id created under key.
func (s *IdempotencyStore) Bind(ctx context.Context, clientID, key, serviceRequestID string) error {
	return s.client.Set(ctx, s.key(clientID, key), serviceRequestID, s.ttl).Err()
}

// Release drops a claim whose request failed so the client can retry.
func (s *IdempotencyStore) Release(ctx context.Context, clientID, key string) error {
	return s.client.Del(ctx, s.key(clientID, key)).Err()
}

func (s *IdempotencyStore) key(clientID, key string) string {
	return fmt.Sprintf("idem:%s:%s", clientID, key)
}
