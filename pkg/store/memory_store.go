package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is the in-process fallback used when Redis is not
// configured, and the store of choice in tests. Entries are kept as
// marshalled JSON so reads never alias the written value and the
// persisted bytes match what the Redis store would hold.
type MemoryStore struct {
	cache *gocache.Cache
}

var _ KeyedStore = &MemoryStore{}

func NewMemoryStore() *MemoryStore {
	// Expired entries are swept every 10 minutes; reads treat expired
	// entries as absent before the sweep runs.
	return &MemoryStore{cache: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func (s *MemoryStore) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, found := s.cache.Get(key)
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(raw.([]byte), dest); err != nil {
		return false, fmt.Errorf("decode entry %s: %w", key, err)
	}
	return true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode entry %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	s.cache.Set(key, raw, ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// Raw returns the persisted bytes for key, for storage-level assertions.
func (s *MemoryStore) Raw(key string) ([]byte, bool) {
	raw, found := s.cache.Get(key)
	if !found {
		return nil, false
	}
	return raw.([]byte), true
}
