package ratelimit

import (
	"encoding/json"
	"math"
	"net/http"
)

// Recorder receives the outcome of every admission decision. Implemented by
// the metrics package; a nil recorder disables recording.
type Recorder interface {
	RecordAdmission(admitted bool)
}

// Middleware gates every request through the admission engine. Rate-limit
// headers are set on all responses; a denied request is answered with 429
// and a JSON body, and never reaches the wrapped handler.
func Middleware(gate *AdmissionGate, rec Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			verdict := gate.Check(r)

			WriteHeaders(w.Header(), verdict)
			if rec != nil {
				rec.RecordAdmission(verdict.Admitted)
			}

			if !verdict.Admitted {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error":               "rate_limit_exceeded",
					"message":             "Too many requests. Please try again later.",
					"retry_after_seconds": int(math.Ceil(verdict.RetryAfter.Seconds())),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
