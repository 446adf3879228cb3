package ratelimit

import (
	"testing"
	"time"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestWindowCounterRecord(t *testing.T) {
	const limit = 3
	window := 60 * time.Second

	c := newWindowCounter(baseTime)

	// Requests at t=0,1,2 are admitted with remaining 2,1,0.
	wantRemaining := []int{2, 1, 0}
	for i, want := range wantRemaining {
		now := baseTime.Add(time.Duration(i) * time.Second)
		c.mu.Lock()
		res := c.record(now, limit, window)
		c.mu.Unlock()

		if !res.admitted {
			t.Fatalf("request %d: admitted = false, want true", i)
		}
		if res.remaining != want {
			t.Errorf("request %d: remaining = %d, want %d", i, res.remaining, want)
		}
		if !res.resetAt.Equal(baseTime.Add(window)) {
			t.Errorf("request %d: resetAt = %v, want %v", i, res.resetAt, baseTime.Add(window))
		}
	}

	// The fourth request in the same window is denied and not counted.
	now := baseTime.Add(3 * time.Second)
	c.mu.Lock()
	res := c.record(now, limit, window)
	count := c.count
	c.mu.Unlock()

	if res.admitted {
		t.Error("over-limit request: admitted = true, want false")
	}
	if res.remaining != 0 {
		t.Errorf("over-limit request: remaining = %d, want 0", res.remaining)
	}
	if count != limit {
		t.Errorf("denied request incremented count: count = %d, want %d", count, limit)
	}

	// After the window boundary the client is admitted again from a fresh
	// count.
	now = baseTime.Add(61 * time.Second)
	c.mu.Lock()
	res = c.record(now, limit, window)
	c.mu.Unlock()

	if !res.admitted {
		t.Fatal("request in next window: admitted = false, want true")
	}
	if res.remaining != limit-1 {
		t.Errorf("request in next window: remaining = %d, want %d", res.remaining, limit-1)
	}
	if !res.resetAt.Equal(baseTime.Add(2 * window)) {
		t.Errorf("request in next window: resetAt = %v, want %v", res.resetAt, baseTime.Add(2*window))
	}
}

func TestWindowCounterRoll(t *testing.T) {
	window := 60 * time.Second

	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
	}{
		{
			name:      "within current window",
			now:       baseTime.Add(30 * time.Second),
			wantStart: baseTime,
		},
		{
			name:      "just past boundary",
			now:       baseTime.Add(61 * time.Second),
			wantStart: baseTime.Add(window),
		},
		{
			name:      "exactly on boundary",
			now:       baseTime.Add(window),
			wantStart: baseTime.Add(window),
		},
		{
			name:      "exactly two windows later",
			now:       baseTime.Add(2 * window),
			wantStart: baseTime.Add(2 * window),
		},
		{
			name:      "long idle jumps directly to the window containing now",
			now:       baseTime.Add(10*window + 15*time.Second),
			wantStart: baseTime.Add(10 * window),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newWindowCounter(baseTime)
			c.count = 5

			c.mu.Lock()
			c.roll(tt.now, window)
			start, count := c.windowStart, c.count
			c.mu.Unlock()

			if !start.Equal(tt.wantStart) {
				t.Errorf("windowStart = %v, want %v", start, tt.wantStart)
			}
			if start.After(tt.now) {
				t.Errorf("windowStart %v is in the future of now %v", start, tt.now)
			}
			rolled := !tt.wantStart.Equal(baseTime)
			if rolled && count != 0 {
				t.Errorf("count = %d, want 0 after roll", count)
			}
			if !rolled && count != 5 {
				t.Errorf("count = %d, want 5 when window did not roll", count)
			}
		})
	}
}

func TestWindowCounterSnapshotIsPure(t *testing.T) {
	const limit = 10
	window := 60 * time.Second

	c := newWindowCounter(baseTime)
	c.mu.Lock()
	c.record(baseTime, limit, window)
	c.record(baseTime.Add(time.Second), limit, window)
	c.mu.Unlock()

	// Snapshot past the boundary reports a fresh window but must not mutate.
	now := baseTime.Add(2 * window)
	c.mu.Lock()
	res := c.snapshot(now, limit, window)
	start, count, seen := c.windowStart, c.count, c.lastSeen
	c.mu.Unlock()

	if !res.admitted || res.remaining != limit {
		t.Errorf("snapshot after expiry = (admitted=%v, remaining=%d), want (true, %d)",
			res.admitted, res.remaining, limit)
	}
	if !start.Equal(baseTime) || count != 2 {
		t.Errorf("snapshot mutated counter: windowStart=%v count=%d", start, count)
	}
	if !seen.Equal(baseTime.Add(time.Second)) {
		t.Errorf("snapshot advanced lastSeen to %v", seen)
	}
}
