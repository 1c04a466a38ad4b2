package shortlinks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists links. PutIfAbsent returns false when the code is taken.
type Store interface {
	PutIfAbsent(ctx context.Context, link Link, ttl time.Duration) (bool, error)
	Get(ctx context.Context, code string) (Link, error)
}

// MemoryStore is an in-process Store with lazy expiry.
type MemoryStore struct {
	mu    sync.Mutex
	links map[string]Link
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[string]Link),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) PutIfAbsent(ctx context.Context, link Link, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.links[link.Code]; ok && !s.expired(existing) {
		return false, nil
	}
	if ttl > 0 {
		link.ExpiresAt = s.now().Add(ttl)
	}
	s.links[link.Code] = link
	return true, nil
}

func (s *MemoryStore) Get(ctx context.Context, code string) (Link, error) {
	if err := ctx.Err(); err != nil {
		return Link{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[code]
	if !ok {
		return Link{}, ErrNotFound
	}
	if s.expired(link) {
		delete(s.links, code)
		return Link{}, ErrNotFound
	}
	return link, nil
}

func (s *MemoryStore) expired(link Link) bool {
	return !link.ExpiresAt.IsZero() && !s.now().Before(link.ExpiresAt)
}

// RedisStore keeps links under shortlink:<code> with SETNX semantics.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func linkKey(code string) string {
	return "shortlink:" + code
}

func (s *RedisStore) PutIfAbsent(ctx context.Context, link Link, ttl time.Duration) (bool, error) {
	if ttl > 0 {
		link.ExpiresAt = link.CreatedAt.Add(ttl)
	}
	payload, err := json.Marshal(link)
	if err != nil {
		return false, err
	}
	ok, err := s.Client.SetNX(ctx, linkKey(link.Code), payload, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("store short link: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) Get(ctx context.Context, code string) (Link, error) {
	raw, err := s.Client.Get(ctx, linkKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Link{}, ErrNotFound
	}
	if err != nil {
		return Link{}, fmt.Errorf("load short link: %w", err)
	}
	var link Link
	if err := json.Unmarshal(raw, &link); err != nil {
		return Link{}, fmt.Errorf("decode short link: %w", err)
	}
	return link, nil
}
