package ratelimit

import (
	"math"
	"net/http"
	"strconv"
)

// Response headers carrying the admission verdict. The names are a
// configuration detail of the HTTP contract, not a correctness property;
// every response carries them whether admitted or denied.
const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderReset      = "X-RateLimit-Reset"
	HeaderRetryAfter = "Retry-After"
)

// WriteHeaders renders a verdict's advisory values onto h. Pure formatting:
// limit ceiling, remaining quota, reset instant as unix seconds, and a
// retry-after hint (whole seconds, rounded up) when denied.
func WriteHeaders(h http.Header, v Verdict) {
	h.Set(HeaderLimit, strconv.Itoa(v.Limit))
	h.Set(HeaderRemaining, strconv.Itoa(v.Remaining))
	h.Set(HeaderReset, strconv.FormatInt(v.ResetAt.Unix(), 10))

	if !v.Admitted && v.RetryAfter > 0 {
		h.Set(HeaderRetryAfter, strconv.Itoa(int(math.Ceil(v.RetryAfter.Seconds()))))
	}
}
