package ratelimit

import (
	"net/http"
	"time"
)

// Verdict is the admission decision for one request plus the advisory values
// the HTTP layer renders as headers. RetryAfter is populated only when the
// request is denied.
type Verdict struct {
	Admitted   bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
	Key        string
}

// AdmissionGate is the single entry point the HTTP layer calls before
// dispatching to business logic. It derives the client key, drives the
// store, and shapes the result into a Verdict.
type AdmissionGate struct {
	store *LimiterStore
	id    ClientIdentifier
	now   func() time.Time
}

// NewAdmissionGate wires a gate onto an already-constructed store.
func NewAdmissionGate(store *LimiterStore) *AdmissionGate {
	return &AdmissionGate{
		store: store,
		id:    NewClientIdentifier(store.Config().identityHeader()),
		now:   time.Now,
	}
}

// Check records the request against its client's counter and returns the
// verdict. It never blocks and never fails; a deny is a normal outcome.
func (g *AdmissionGate) Check(r *http.Request) Verdict {
	key := g.id.Identify(r)
	now := g.now()
	return g.verdict(key, now, g.store.Take(key, now))
}

// Peek reports the requesting client's current standing without consuming
// quota. Used by the diagnostic endpoint; it has no side effects on the
// counter.
func (g *AdmissionGate) Peek(r *http.Request) Verdict {
	key := g.id.Identify(r)
	now := g.now()
	return g.verdict(key, now, g.store.Peek(key, now))
}

// Config exposes the active policy for the diagnostic endpoint.
func (g *AdmissionGate) Config() Config {
	return g.store.Config()
}

func (g *AdmissionGate) verdict(key string, now time.Time, res result) Verdict {
	v := Verdict{
		Admitted:  res.admitted,
		Limit:     g.store.Config().Limit,
		Remaining: res.remaining,
		ResetAt:   res.resetAt,
		Key:       key,
	}
	if !res.admitted {
		if wait := res.resetAt.Sub(now); wait > 0 {
			v.RetryAfter = wait
		}
	}
	return v
}
