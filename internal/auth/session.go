package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a token resolves to no live session.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore maps opaque cookie tokens to account IDs. Sessions are
// server-side so a blocked account's session can be destroyed eagerly.
type SessionStore interface {
	Create(ctx context.Context, accountID uint) (string, error)
	Resolve(ctx context.Context, token string) (uint, error)
	Destroy(ctx context.Context, token string) error
}

// RedisSessionStore keeps sessions in Redis with a sliding TTL.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionStore returns a SessionStore backed by the given Redis client.
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Create stores a new session and returns its opaque token.
func (s *RedisSessionStore) Create(ctx context.Context, accountID uint) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionKey(token), strconv.FormatUint(uint64(accountID), 10), s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the account ID bound to the token and refreshes the TTL.
func (s *RedisSessionStore) Resolve(ctx context.Context, token string) (uint, error) {
	val, err := s.rdb.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, err
	}
	accountID, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, ErrSessionNotFound
	}
	s.rdb.Expire(ctx, sessionKey(token), s.ttl)
	return uint(accountID), nil
}

// Destroy removes the session; destroying an unknown token is not an error.
func (s *RedisSessionStore) Destroy(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKey(token)).Err()
}

// MemorySessionStore is the single-node fallback used when Redis is not
// configured, and in tests. Expired entries are dropped on access.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	ttl      time.Duration
}

type memorySession struct {
	accountID uint
	expiresAt time.Time
}

// NewMemorySessionStore returns an in-process SessionStore.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memorySession),
		ttl:      ttl,
	}
}

// Create stores a new session and returns its opaque token.
func (s *MemorySessionStore) Create(_ context.Context, accountID uint) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memorySession{accountID: accountID, expiresAt: time.Now().Add(s.ttl)}
	return token, nil
}

// Resolve returns the account ID bound to the token and refreshes the TTL.
func (s *MemorySessionStore) Resolve(_ context.Context, token string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return 0, ErrSessionNotFound
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return 0, ErrSessionNotFound
	}
	sess.expiresAt = time.Now().Add(s.ttl)
	s.sessions[token] = sess
	return sess.accountID, nil
}

// Destroy removes the session; destroying an unknown token is not an error.
func (s *MemorySessionStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
