package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"
)

type countingRecorder struct {
	mu       sync.Mutex
	admitted int
	denied   int
}

func (c *countingRecorder) RecordAdmission(admitted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if admitted {
		c.admitted++
	} else {
		c.denied++
	}
}

func TestMiddlewareAdmitsAndSetsHeaders(t *testing.T) {
	cfg := testConfig()
	g, _ := newTestGate(t, cfg)

	var reached bool
	handler := Middleware(g, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/employees/search", nil)
	req.Header.Set(DefaultIdentityHeader, "abc")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if !reached {
		t.Fatal("admitted request did not reach the wrapped handler")
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got, want := w.Header().Get(HeaderLimit), strconv.Itoa(cfg.Limit); got != want {
		t.Errorf("%s = %q, want %q", HeaderLimit, got, want)
	}
	if got, want := w.Header().Get(HeaderRemaining), strconv.Itoa(cfg.Limit-1); got != want {
		t.Errorf("%s = %q, want %q", HeaderRemaining, got, want)
	}
	if w.Header().Get(HeaderReset) == "" {
		t.Errorf("%s header missing on admitted response", HeaderReset)
	}
}

func TestMiddlewareDeniesWithHeadersAndBody(t *testing.T) {
	cfg := testConfig()
	cfg.Limit = 1
	g, _ := newTestGate(t, cfg)
	rec := &countingRecorder{}

	calls := 0
	handler := Middleware(g, rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	req := httptest.NewRequest("GET", "/api/v1/employees/search", nil)
	req.Header.Set(DefaultIdentityHeader, "abc")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if calls != 1 {
		t.Errorf("wrapped handler called %d times, want 1 (denied request must short-circuit)", calls)
	}
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	// Rate-limit visibility is required on denied responses too.
	if got := w.Header().Get(HeaderRemaining); got != "0" {
		t.Errorf("%s = %q, want %q", HeaderRemaining, got, "0")
	}
	retryAfter, err := strconv.Atoi(w.Header().Get(HeaderRetryAfter))
	if err != nil {
		t.Fatalf("%s = %q, want an integer", HeaderRetryAfter, w.Header().Get(HeaderRetryAfter))
	}
	if retryAfter <= 0 || time.Duration(retryAfter)*time.Second > cfg.Window {
		t.Errorf("%s = %d, want in (0, %d]", HeaderRetryAfter, retryAfter, int(cfg.Window.Seconds()))
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("denied body is not JSON: %v", err)
	}
	if body["error"] != "rate_limit_exceeded" {
		t.Errorf("body error = %v, want rate_limit_exceeded", body["error"])
	}

	if rec.admitted != 1 || rec.denied != 1 {
		t.Errorf("recorder saw (admitted=%d, denied=%d), want (1, 1)", rec.admitted, rec.denied)
	}
}

func TestMiddlewareConcurrentSameClient(t *testing.T) {
	cfg := testConfig()
	cfg.Limit = 40
	g, _ := newTestGate(t, cfg)

	handler := Middleware(g, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var wg sync.WaitGroup
	codes := make([]int, cfg.Limit)
	for i := 0; i < cfg.Limit; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set(DefaultIdentityHeader, "swarm")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		if code != http.StatusOK {
			t.Fatalf("concurrent request %d: status = %d, want %d", i, code, http.StatusOK)
		}
	}

	// The window is now exactly full.
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(DefaultIdentityHeader, "swarm")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("request %d: status = %d, want %d", cfg.Limit+1, w.Code, http.StatusTooManyRequests)
	}
}
