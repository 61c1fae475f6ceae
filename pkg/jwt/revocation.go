package jwt

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers revoked tokens until they would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenString string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenString string) (bool, error)
}

// NewRedisRevocationStore keeps the blacklist in Redis with per-key TTLs.
func NewRedisRevocationStore(client *redis.Client) RevocationStore {
	return &redisRevocationStore{redis: client}
}

type redisRevocationStore struct {
	redis *redis.Client
}

func (s *redisRevocationStore) Revoke(ctx context.Context, tokenString string, ttl time.Duration) error {
	return s.redis.Set(ctx, redisKey(tokenString), "revoked", ttl).Err()
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, tokenString string) (bool, error) {
	res, err := s.redis.Exists(ctx, redisKey(tokenString)).Result()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

// redisKey generates a Redis key for a JWT token.
func redisKey(tokenString string) string {
	return "jwt:blacklist:" + tokenString
}

// NewMemoryRevocationStore is used when Redis is not configured (single process, tests).
func NewMemoryRevocationStore() RevocationStore {
	return &memoryRevocationStore{entries: make(map[string]time.Time), now: time.Now}
}

type memoryRevocationStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func (s *memoryRevocationStore) Revoke(_ context.Context, tokenString string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	// drop expired entries so the map does not grow without bound
	for k, exp := range s.entries {
		if !now.Before(exp) {
			delete(s.entries, k)
		}
	}
	s.entries[tokenString] = now.Add(ttl)
	return nil
}

func (s *memoryRevocationStore) IsRevoked(_ context.Context, tokenString string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.entries[tokenString]
	if !ok {
		return false, nil
	}
	if !s.now().Before(exp) {
		delete(s.entries, tokenString)
		return false, nil
	}
	return true, nil
}
