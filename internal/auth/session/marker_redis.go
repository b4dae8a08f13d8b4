package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const markerKeyPrefix = "sess:"

// RedisMarkerStore implements MarkerStore on Redis with a per-marker TTL.
type RedisMarkerStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisMarkerStore wraps client with the configured session lifetime.
func NewRedisMarkerStore(client *redis.Client, ttl time.Duration) (*RedisMarkerStore, error) {
	if client == nil {
		return nil, errors.New("session: nil redis client")
	}
	if ttl <= 0 {
		return nil, errors.New("session: non-positive marker ttl")
	}
	return &RedisMarkerStore{client: client, ttl: ttl}, nil
}

// Create stores a fresh marker for userID under an opaque uuid key.
func (s *RedisMarkerStore) Create(ctx context.Context, userID string) (string, error) {
	id := uuid.NewString()
	if err := s.client.Set(ctx, markerKeyPrefix+id, userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Lookup resolves a marker id to its user id.
func (s *RedisMarkerStore) Lookup(ctx context.Context, markerID string) (string, error) {
	userID, err := s.client.Get(ctx, markerKeyPrefix+markerID).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMarkerNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

// Destroy removes a marker; unknown markers are a no-op.
func (s *RedisMarkerStore) Destroy(ctx context.Context, markerID string) error {
	return s.client.Del(ctx, markerKeyPrefix+markerID).Err()
}
