package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// RevocationStore remembers revoked refresh tokens and per-principal
// "issued before" marks.
type RevocationStore interface {
	RevokeToken(ctx context.Context, jti string, until time.Time) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	RevokeSubjectBefore(ctx context.Context, key string, at time.Time, ttl time.Duration) error
	SubjectRevokedBefore(ctx context.Context, key string) (time.Time, bool, error)
}

// --------------------------------------------------
// Redis
// --------------------------------------------------

type RedisRevocationStore struct {
	client *redis.Client
	prefix string
}

func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client, prefix: "lawnmate:auth:"}
}

func (s *RedisRevocationStore) RevokeToken(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.prefix+"jti:"+jti, 1, ttl).Err()
}

func (s *RedisRevocationStore) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+"jti:"+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisRevocationStore) RevokeSubjectBefore(ctx context.Context, key string, at time.Time, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+"sub:"+key, at.Unix(), ttl).Err()
}

func (s *RedisRevocationStore) SubjectRevokedBefore(ctx context.Context, key string) (time.Time, bool, error) {
	unix, err := s.client.Get(ctx, s.prefix+"sub:"+key).Int64()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Unix(unix, 0), true, nil
}

// --------------------------------------------------
// In-process fallback (single instance, tests)
// --------------------------------------------------

type MemoryRevocationStore struct {
	mu       sync.Mutex
	tokens   map[string]time.Time
	subjects map[string]time.Time
	now      func() time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		tokens:   make(map[string]time.Time),
		subjects: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (s *MemoryRevocationStore) RevokeToken(_ context.Context, jti string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[jti] = until
	return nil
}

func (s *MemoryRevocationStore) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.tokens[jti]
	if !ok {
		return false, nil
	}
	if s.now().After(until) {
		delete(s.tokens, jti)
		return false, nil
	}
	return true, nil
}

func (s *MemoryRevocationStore) RevokeSubjectBefore(_ context.Context, key string, at time.Time, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects[key] = at
	return nil
}

func (s *MemoryRevocationStore) SubjectRevokedBefore(_ context.Context, key string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.subjects[key]
	return at, ok, nil
}
