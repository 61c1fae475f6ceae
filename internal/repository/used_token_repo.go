package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"seungpyo.lee/PersonalBlog/internal/domain"
)

// NewRedisUsedTokenStore records consumed reset tokens in Redis until they expire.
func NewRedisUsedTokenStore(client *redis.Client) domain.UsedTokenStore {
	return &redisUsedTokenStore{redis: client}
}

type redisUsedTokenStore struct {
	redis *redis.Client
}

// MarkUsed relies on SETNX so two concurrent consumers cannot both win.
func (s *redisUsedTokenStore) MarkUsed(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	ok, err := s.redis.SetNX(ctx, usedTokenKey(token), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark reset token used: %w", err)
	}
	return ok, nil
}

// usedTokenKey stores a digest so raw tokens never sit in Redis.
func usedTokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "reset:used:" + hex.EncodeToString(sum[:])
}

// NewMemoryUsedTokenStore is the single-process variant.
func NewMemoryUsedTokenStore() domain.UsedTokenStore {
	return &memoryUsedTokenStore{used: make(map[string]time.Time), now: time.Now}
}

type memoryUsedTokenStore struct {
	mu   sync.Mutex
	used map[string]time.Time
	now  func() time.Time
}

func (s *memoryUsedTokenStore) MarkUsed(_ context.Context, token string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, exp := range s.used {
		if !now.Before(exp) {
			delete(s.used, k)
		}
	}
	key := usedTokenKey(token)
	if _, ok := s.used[key]; ok {
		return false, nil
	}
	s.used[key] = now.Add(ttl)
	return true, nil
}
