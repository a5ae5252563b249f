package seed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/linkdrift/pkg/cache"
	"github.com/matzehuels/linkdrift/pkg/observability"
)

// Store remembers seeds by link identity for the length of a session.
type Store interface {
	Get(ctx context.Context, key string) (Seed, bool, error)
	Put(ctx context.Context, key string, s Seed) error
}

// CacheStore keeps seeds as JSON in a [cache.Cache].
type CacheStore struct {
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration
}

// NewCacheStore creates a store over c. A nil keyer uses the default keyer;
// a zero ttl uses cache.TTLSeed.
func NewCacheStore(c cache.Cache, keyer cache.Keyer, ttl time.Duration) *CacheStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl == 0 {
		ttl = cache.TTLSeed
	}
	return &CacheStore{Cache: c, Keyer: keyer, TTL: ttl}
}

// Get implements Store. Stored values that fail to decode or validate are
// treated as misses.
func (s *CacheStore) Get(ctx context.Context, key string) (Seed, bool, error) {
	data, hit, err := s.Cache.Get(ctx, s.Keyer.SeedKey(key))
	if err != nil {
		return Seed{}, false, err
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "seed")
		return Seed{}, false, nil
	}
	var sd Seed
	if err := json.Unmarshal(data, &sd); err != nil || !sd.Valid() {
		observability.Cache().OnCacheMiss(ctx, "seed")
		return Seed{}, false, nil
	}
	observability.Cache().OnCacheHit(ctx, "seed")
	return sd, true, nil
}

// Put implements Store.
func (s *CacheStore) Put(ctx context.Context, key string, sd Seed) error {
	data, err := json.Marshal(sd)
	if err != nil {
		return err
	}
	if err := s.Cache.Set(ctx, s.Keyer.SeedKey(key), data, s.TTL); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, "seed", len(data))
	return nil
}
