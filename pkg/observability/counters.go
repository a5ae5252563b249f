package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters implements every hook interface with atomic counters.
type Counters struct {
	recomputes  atomic.Int64
	modeChanges atomic.Int64
	unresolved  atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	cacheSets   atomic.Int64
	requests    atomic.Int64
	errors      atomic.Int64
}

// NewCounters creates zeroed counters.
func NewCounters() *Counters { return &Counters{} }

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Recomputes  int64 `json:"recomputes"`
	ModeChanges int64 `json:"mode_changes"`
	Unresolved  int64 `json:"unresolved"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	CacheSets   int64 `json:"cache_sets"`
	Requests    int64 `json:"requests"`
	Errors      int64 `json:"errors"`
}

// Snapshot returns the current values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Recomputes:  c.recomputes.Load(),
		ModeChanges: c.modeChanges.Load(),
		Unresolved:  c.unresolved.Load(),
		CacheHits:   c.cacheHits.Load(),
		CacheMisses: c.cacheMisses.Load(),
		CacheSets:   c.cacheSets.Load(),
		Requests:    c.requests.Load(),
		Errors:      c.errors.Load(),
	}
}

func (c *Counters) OnRecompute(context.Context, string, string, int, time.Duration) {
	c.recomputes.Add(1)
}
func (c *Counters) OnModeChange(context.Context, string, string) { c.modeChanges.Add(1) }
func (c *Counters) OnUnresolved(context.Context, string, int)    { c.unresolved.Add(1) }
func (c *Counters) OnCacheHit(context.Context, string)           { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string)          { c.cacheMisses.Add(1) }
func (c *Counters) OnCacheSet(context.Context, string, int)      { c.cacheSets.Add(1) }

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	c.requests.Add(1)
	if status >= 500 {
		c.errors.Add(1)
	}
}

var (
	_ EngineHooks = (*Counters)(nil)
	_ CacheHooks  = (*Counters)(nil)
	_ HTTPHooks   = (*Counters)(nil)
)
