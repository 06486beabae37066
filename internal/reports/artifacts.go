package reports

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// ArtifactStore holds finished export files until they are collected.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// RedisArtifactStore keeps export artifacts in Redis with a TTL. Exports
// are small and short lived, so they never reach the document bucket.
type RedisArtifactStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisArtifactStore constructs a store. A zero ttl defaults to 24h.
func NewRedisArtifactStore(client *redis.Client, ttl time.Duration) *RedisArtifactStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisArtifactStore{client: client, ttl: ttl}
}

// Put stores artifact bytes under the key.
func (s *RedisArtifactStore) Put(ctx context.Context, key string, data []byte) error {
	if s == nil || s.client == nil {
		return errors.New("artifact store not configured")
	}
	return s.client.Set(ctx, "artifact:"+key, data, s.ttl).Err()
}

// Get loads artifact bytes, returning shared.ErrNotFound when expired.
func (s *RedisArtifactStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("artifact store not configured")
	}
	data, err := s.client.Get(ctx, "artifact:"+key).Bytes()
	if err == redis.Nil {
		return nil, shared.ErrNotFound
	}
	return data, err
}
