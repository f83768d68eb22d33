package cache

import (
	"context"
	"errors"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/viccon/sturdyc"
)

// Sturdyc is a bounded, sharded cache. Entries expire after the configured TTL
// and the least recently used share is evicted once capacity is reached.
type Sturdyc struct {
	client *sturdyc.Client[any]
}

// NewSturdyc creates a sturdyc-backed cache from cfg.
func NewSturdyc(cfg config.CacheConfig) (*Sturdyc, error) {
	if cfg.Capacity <= 0 {
		return nil, errors.New("sturdyc cache: capacity must be greater than 0")
	}
	if cfg.NumShards <= 0 {
		return nil, errors.New("sturdyc cache: num_shards must be greater than 0")
	}
	if cfg.TTL() <= 0 {
		return nil, errors.New("sturdyc cache: ttl must be greater than 0")
	}
	if cfg.EvictionPercentage < 1 || cfg.EvictionPercentage > 100 {
		return nil, errors.New("sturdyc cache: eviction_percentage must be between 1 and 100")
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL(),
		cfg.EvictionPercentage,
	)

	return &Sturdyc{client: client}, nil
}

// Get implements Cache.
func (s *Sturdyc) Get(_ context.Context, key string) (any, bool) {
	return s.client.Get(key)
}

// Put implements Cache.
func (s *Sturdyc) Put(_ context.Context, key string, value any) {
	s.client.Set(key, value)
}

// ClearAll implements Cache. sturdyc has no bulk reset, so every key is
// scanned and deleted.
func (s *Sturdyc) ClearAll(_ context.Context) {
	for _, key := range s.client.ScanKeys() {
		s.client.Delete(key)
	}
}

// Len implements Cache.
func (s *Sturdyc) Len() int {
	return s.client.Size()
}
