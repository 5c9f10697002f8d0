package rules

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/assistant-console/core/internal/console/model"
)

// MemoryStore keeps rules in process memory. Entries never expire unless a
// TTL is configured.
type MemoryStore struct {
	cache  *cache.Cache
	prefix string
}

func NewMemoryStore(cfg model.RulesConfig) *MemoryStore {
	ttl := cache.NoExpiration
	cleanup := time.Duration(0)
	if cfg.TTL > 0 {
		ttl = cfg.TTL
		cleanup = 10 * time.Minute
	}
	return &MemoryStore{
		cache:  cache.New(ttl, cleanup),
		prefix: cfg.KeyPrefix,
	}
}

func (s *MemoryStore) Save(_ context.Context, assistantID, text string) error {
	s.cache.Set(Key(s.prefix, assistantID), text, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, assistantID string) (string, error) {
	if x, found := s.cache.Get(Key(s.prefix, assistantID)); found {
		return x.(string), nil
	}
	return "", nil
}

func (s *MemoryStore) Delete(_ context.Context, assistantID string) error {
	s.cache.Delete(Key(s.prefix, assistantID))
	return nil
}

var _ Store = (*MemoryStore)(nil)
