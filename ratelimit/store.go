package ratelimit

import (
	"sync"
	"time"
)

// LimiterStore is the concurrent keyed collection of per-client window
// counters. Counters are created lazily on a client's first request and
// reclaimed either by the periodic idle sweep or, when MaxClients is set, by
// least-recently-seen reclamation at creation time.
//
// The map is guarded by an RWMutex with a read-lock fast path for existing
// clients; each counter serializes its own updates with a per-counter mutex,
// so concurrent requests from the same client are counted one at a time and
// no increment is lost.
type LimiterStore struct {
	config   Config
	mu       sync.RWMutex
	counters map[string]*windowCounter
}

// NewLimiterStore validates the policy and returns an empty store. The store
// is the single owner of all limiter state; construct one per process and
// pass it to the request-handling layer.
func NewLimiterStore(config Config) (*LimiterStore, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &LimiterStore{
		config:   config,
		counters: make(map[string]*windowCounter),
	}, nil
}

// Config returns the immutable policy the store was built with.
func (s *LimiterStore) Config() Config {
	return s.config
}

// Take records one request for key at instant now and returns the admission
// result. Lookup and creation always succeed; the only "failure" is a denied
// admission, which is a normal return value.
func (s *LimiterStore) Take(key string, now time.Time) result {
	for {
		c := s.getOrCreate(key, now)
		c.mu.Lock()
		if c.evicted {
			// Lost a race with the sweep; the counter is gone from the map.
			c.mu.Unlock()
			continue
		}
		res := c.record(now, s.config.Limit, s.config.Window)
		c.mu.Unlock()
		return res
	}
}

// Peek reports the state key would observe at instant now without counting a
// request or touching lastSeen. A client with no counter reports the full
// limit.
func (s *LimiterStore) Peek(key string, now time.Time) result {
	s.mu.RLock()
	c, ok := s.counters[key]
	s.mu.RUnlock()

	if !ok {
		return result{
			admitted:  true,
			remaining: s.config.Limit,
			resetAt:   now.Add(s.config.Window),
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(now, s.config.Limit, s.config.Window)
}

// SweepIdle removes every counter whose last request is older than the idle
// eviction threshold, returning the number removed. It runs on its own
// periodic timer, decoupled from the request path. A counter mid-update
// holds its own lock, so the sweep observes its fresh lastSeen and skips it.
func (s *LimiterStore) SweepIdle(now time.Time) int {
	cutoff := now.Add(-s.config.IdleEvictionAfter)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, c := range s.counters {
		c.mu.Lock()
		if c.lastSeen.Before(cutoff) {
			c.evicted = true
			delete(s.counters, key)
			removed++
		}
		c.mu.Unlock()
	}
	return removed
}

// Size returns the number of tracked clients. Diagnostic only.
func (s *LimiterStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.counters)
}

// StartSweeping launches the periodic idle sweep and returns a function that
// stops it. Call the stop function on shutdown.
func (s *LimiterStore) StartSweeping() func() {
	ticker := time.NewTicker(s.config.SweepInterval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				// Wall clock, not the delivered tick time: after a stall the
				// tick value can lag and delay eviction.
				s.SweepIdle(time.Now())
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}

// getOrCreate returns the counter for key, creating and registering a fresh
// zero-count counter anchored at now if none exists. Creation is
// exactly-once under concurrent first access: the write path re-checks the
// map after upgrading the lock.
func (s *LimiterStore) getOrCreate(key string, now time.Time) *windowCounter {
	s.mu.RLock()
	c, ok := s.counters[key]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.counters[key]; ok {
		return c
	}

	if s.config.MaxClients > 0 && len(s.counters) >= s.config.MaxClients {
		s.reclaimOldestLocked()
	}

	c = newWindowCounter(now)
	s.counters[key] = c
	return c
}

// reclaimOldestLocked drops the least-recently-seen counter. O(n) over
// tracked clients, but it only runs when a brand-new client arrives with the
// store at its bound. Caller holds s.mu for writing.
func (s *LimiterStore) reclaimOldestLocked() {
	var (
		oldestKey  string
		oldest     *windowCounter
		oldestSeen time.Time
	)
	for key, c := range s.counters {
		c.mu.Lock()
		seen := c.lastSeen
		c.mu.Unlock()
		if oldest == nil || seen.Before(oldestSeen) {
			oldestKey, oldest, oldestSeen = key, c, seen
		}
	}
	if oldest == nil {
		return
	}

	oldest.mu.Lock()
	oldest.evicted = true
	oldest.mu.Unlock()
	delete(s.counters, oldestKey)
}
