package ratelimit

import (
	"net/http"
	"testing"
	"time"
)

func TestWriteHeaders(t *testing.T) {
	resetAt := time.Unix(1_750_000_000, 0)

	tests := []struct {
		name           string
		verdict        Verdict
		wantRetryAfter string
	}{
		{
			name: "admitted verdict omits retry-after",
			verdict: Verdict{
				Admitted:  true,
				Limit:     100,
				Remaining: 57,
				ResetAt:   resetAt,
			},
			wantRetryAfter: "",
		},
		{
			name: "denied verdict includes retry-after rounded up",
			verdict: Verdict{
				Admitted:   false,
				Limit:      100,
				Remaining:  0,
				ResetAt:    resetAt,
				RetryAfter: 56100 * time.Millisecond,
			},
			wantRetryAfter: "57",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := make(http.Header)
			WriteHeaders(h, tt.verdict)

			if got, want := h.Get(HeaderLimit), "100"; got != want {
				t.Errorf("%s = %q, want %q", HeaderLimit, got, want)
			}
			wantRemaining := "57"
			if !tt.verdict.Admitted {
				wantRemaining = "0"
			}
			if got := h.Get(HeaderRemaining); got != wantRemaining {
				t.Errorf("%s = %q, want %q", HeaderRemaining, got, wantRemaining)
			}
			if got, want := h.Get(HeaderReset), "1750000000"; got != want {
				t.Errorf("%s = %q, want %q", HeaderReset, got, want)
			}
			if got := h.Get(HeaderRetryAfter); got != tt.wantRetryAfter {
				t.Errorf("%s = %q, want %q", HeaderRetryAfter, got, tt.wantRetryAfter)
			}
		})
	}
}
