package ratelimit

import (
	"fmt"
	"time"
)

// DefaultIdentityHeader is the request header consulted for an explicit
// client identity before falling back to the origin address.
const DefaultIdentityHeader = "X-Client-ID"

// Config holds the limiter policy. It is immutable after the store is
// constructed; changing limits requires a restart.
type Config struct {
	// Limit is the maximum number of admitted requests per window per client.
	Limit int

	// Window is the length of the fixed counting window.
	Window time.Duration

	// IdleEvictionAfter is how long a client's counter may sit unused before
	// the background sweep reclaims it. Must be at least Window, otherwise a
	// sweep could erase state for a window that is still counting.
	IdleEvictionAfter time.Duration

	// SweepInterval is how often the background sweep runs.
	SweepInterval time.Duration

	// MaxClients bounds the number of tracked counters. Zero means
	// unbounded. When a new client would exceed the bound, the
	// least-recently-seen counter is reclaimed immediately.
	MaxClients int

	// IdentityHeader names the header carrying an explicit client identity.
	// Empty selects DefaultIdentityHeader.
	IdentityHeader string
}

// DefaultConfig returns the stock policy: 100 requests per 60 seconds,
// idle counters reclaimed after five windows.
func DefaultConfig() Config {
	return Config{
		Limit:             100,
		Window:            60 * time.Second,
		IdleEvictionAfter: 5 * 60 * time.Second,
		SweepInterval:     60 * time.Second,
		IdentityHeader:    DefaultIdentityHeader,
	}
}

// Validate checks the policy. Any error here is a startup-fatal
// configuration error, surfaced before the service accepts traffic.
func (c Config) Validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidConfig, c.Limit)
	}
	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %s", ErrInvalidConfig, c.Window)
	}
	if c.IdleEvictionAfter < c.Window {
		return fmt.Errorf("%w: idle eviction threshold %s is shorter than the window %s",
			ErrInvalidConfig, c.IdleEvictionAfter, c.Window)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("%w: sweep interval must be positive, got %s", ErrInvalidConfig, c.SweepInterval)
	}
	if c.MaxClients < 0 {
		return fmt.Errorf("%w: max clients cannot be negative, got %d", ErrInvalidConfig, c.MaxClients)
	}
	return nil
}

func (c Config) identityHeader() string {
	if c.IdentityHeader == "" {
		return DefaultIdentityHeader
	}
	return c.IdentityHeader
}
