// Package ratelimit implements the request admission engine for rosterd.
//
// Every inbound API request is evaluated against a per-client fixed-window
// counter held entirely in process memory: no external coordination service,
// no cross-restart durability. The engine derives a client key from the
// request (explicit identity header, falling back to the network origin
// address), looks up or creates the client's counter, and returns an
// admission verdict together with the advisory values the HTTP layer renders
// as X-RateLimit-* headers.
//
// Fixed-window counting is deliberate: it is the cheapest correct scheme for
// a single-process engine and matches the documented guarantee of N requests
// per window per client. It admits a known burst of up to 2x the limit across
// a window boundary; that trade-off is accepted and covered by tests rather
// than smoothed over.
//
// Counters for idle clients are reclaimed by a periodic background sweep so
// memory is bounded by the active-client count. An optional maximum-client
// bound additionally reclaims the least-recently-seen counter when a new
// client would exceed it.
//
// All operations are lock-based, O(1) on the request path, and never block
// on I/O, so there is nothing to cancel and no context plumbing.
package ratelimit
