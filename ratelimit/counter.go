package ratelimit

import (
	"sync"
	"time"
)

// windowCounter tracks one client's request count within the current fixed
// window. Its fields are guarded by mu; the store never reads them without
// taking it.
type windowCounter struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
	lastSeen    time.Time

	// evicted marks a counter removed from the store. A request that raced
	// the sweep and still holds a reference must not record against it;
	// Take retries and creates a fresh counter instead.
	evicted bool
}

func newWindowCounter(now time.Time) *windowCounter {
	return &windowCounter{windowStart: now, lastSeen: now}
}

// result is the outcome of recording one request against a counter.
type result struct {
	admitted  bool
	remaining int
	resetAt   time.Time
}

// roll advances windowStart to the start of the window containing now and
// resets the count, jumping over however many whole windows elapsed while
// the client was idle. Caller holds c.mu.
func (c *windowCounter) roll(now time.Time, window time.Duration) {
	elapsed := now.Sub(c.windowStart)
	if elapsed < window {
		return
	}
	periods := elapsed / window
	c.windowStart = c.windowStart.Add(window * periods)
	c.count = 0
}

// record applies one request: roll the window if needed, admit and count the
// request if the limit allows, deny without counting otherwise. resetAt is
// computed regardless of the verdict and lastSeen always advances. Caller
// holds c.mu.
func (c *windowCounter) record(now time.Time, limit int, window time.Duration) result {
	c.roll(now, window)
	c.lastSeen = now
	resetAt := c.windowStart.Add(window)

	if c.count >= limit {
		return result{admitted: false, remaining: 0, resetAt: resetAt}
	}
	c.count++
	return result{admitted: true, remaining: limit - c.count, resetAt: resetAt}
}

// snapshot reports the counter's state as a pure read: the window roll is
// computed locally without mutating the counter, and lastSeen is untouched.
// Caller holds c.mu.
func (c *windowCounter) snapshot(now time.Time, limit int, window time.Duration) result {
	start, count := c.windowStart, c.count
	if elapsed := now.Sub(start); elapsed >= window {
		start = start.Add(window * (elapsed / window))
		count = 0
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return result{admitted: count < limit, remaining: remaining, resetAt: start.Add(window)}
}
