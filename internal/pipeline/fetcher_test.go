package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/credence/internal/cache"
	"github.com/ppiankov/credence/internal/model"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "test-agent",
		MaxBodyBytes: 1 << 20,
		MaxRetries:   3,
		RetryBackoff: time.Millisecond,
	}
}

func TestFetchWithRetry_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body>OK</body></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig(), nil, nil)
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.HTML != "<html><body>OK</body></html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
	if result.FromCache {
		t.Error("First fetch cannot come from cache")
	}
}

func TestFetchWithRetry_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(testHTTPConfig(), nil, nil)
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if result.HTML != "<html>OK</html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_PermanentFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(testHTTPConfig(), nil, nil)
	_, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
	if got := err.Error(); got != "unexpected status: 404 404 Not Found" {
		t.Errorf("Unexpected error: %s", got)
	}
	if attempts.Load() != 1 {
		t.Errorf("404 is not retryable, expected 1 attempt, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_AllRetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(testHTTPConfig(), nil, nil)
	_, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error after all retries exhausted")
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_429Retried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(testHTTPConfig(), nil, nil)
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after 429 retry, got %v", err)
	}
	if result.HTML != "<html>OK</html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
	if attempts.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_CacheHit(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = fmt.Fprint(w, "<html>cached page</html>")
	}))
	defer server.Close()

	store := cache.NewMemory(time.Minute, time.Minute)
	fetcher := NewFetcher(testHTTPConfig(), nil, store)

	first, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("First fetch failed: %v", err)
	}
	if first.FromCache {
		t.Error("First fetch must hit the network")
	}

	second, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Second fetch failed: %v", err)
	}
	if !second.FromCache {
		t.Error("Second fetch should come from cache")
	}
	if second.HTML != first.HTML {
		t.Errorf("Cached HTML differs: %q vs %q", second.HTML, first.HTML)
	}
	if requests.Load() != 1 {
		t.Errorf("Expected 1 network request, got %d", requests.Load())
	}
}

func TestFetch_RobotsDisallow(t *testing.T) {
	var pageRequests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /secret\n")
			return
		}
		pageRequests.Add(1)
		_, _ = fmt.Fprint(w, "<html>page</html>")
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.RespectRobots = true
	fetcher := NewFetcher(cfg, nil, nil)

	_, err := fetcher.FetchWithRetry(context.Background(), server.URL+"/secret")
	if err == nil || !strings.Contains(err.Error(), "robots") {
		t.Fatalf("Expected robots denial, got %v", err)
	}
	if pageRequests.Load() != 0 {
		t.Errorf("Disallowed page must not be requested, got %d requests", pageRequests.Load())
	}

	result, err := fetcher.FetchWithRetry(context.Background(), server.URL+"/open")
	if err != nil {
		t.Fatalf("Allowed path should fetch, got %v", err)
	}
	if result.HTML != "<html>page</html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
}

func TestFetch_BodySizeCapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100_000)))
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 1024
	fetcher := NewFetcher(cfg, nil, nil)

	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.HTML) != 1024 {
		t.Errorf("Expected body capped at 1024 bytes, got %d", len(result.HTML))
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		err       string
		retryable bool
	}{
		{"unexpected status: 503 Service Unavailable", true},
		{"unexpected status: 500 Internal Server Error", true},
		{"unexpected status: 502 Bad Gateway", true},
		{"unexpected status: 429 Too Many Requests", true},
		{"unexpected status: 404 Not Found", false},
		{"unexpected status: 403 Forbidden", false},
		{"unexpected status: 401 Unauthorized", false},
		{"fetch: connection refused", true},
		{"fetch: connection reset by peer", true},
		{"create request: invalid URL", false},
		{"read body: unexpected EOF", false},
		{"blocked by robots.txt: https://example.com/a", false},
	}

	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			err := fmt.Errorf("%s", tt.err)
			got := isRetryableFetchError(err)
			if got != tt.retryable {
				t.Errorf("isRetryableFetchError(%q) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}

func TestIsRetryableFetchError_Nil(t *testing.T) {
	if isRetryableFetchError(nil) {
		t.Error("Expected nil error to not be retryable")
	}
}
