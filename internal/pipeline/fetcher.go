package pipeline

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/credence/internal/cache"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/util"
	"github.com/ppiankov/credence/internal/worker"
)

// fetchSleepFunc is replaceable in tests to avoid real backoff waits.
var fetchSleepFunc = time.Sleep

// Fetcher retrieves HTML pages with retries, per-domain rate limiting,
// robots.txt compliance, and an optional fetch cache.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	retries    int
	backoff    time.Duration
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	store      cache.Cache
}

// NewFetcher creates a Fetcher. The limiter and store may be nil, which
// disables rate limiting and caching respectively.
func NewFetcher(cfg model.HTTPConfig, limiter *worker.Limiter, store cache.Cache) *Fetcher {
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 1
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 2 * time.Second
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
	}
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	var robots *util.RobotsChecker
	if cfg.RespectRobots {
		robots = util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout)
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
		retries:   retries,
		backoff:   backoff,
		robots:    robots,
		limiter:   limiter,
		store:     store,
	}
}

// FetchResult contains the fetched page and where it finally came from.
type FetchResult struct {
	HTML      string
	FinalURL  string
	FromCache bool
}

// cachedPage is the cache payload for one fetched URL.
type cachedPage struct {
	HTML     string `json:"html"`
	FinalURL string `json:"finalUrl"`
}

// FetchWithRetry fetches a URL, consulting the cache first and retrying
// transient failures with linear backoff. Non-retryable failures (4xx
// other than 429, robots denial, malformed URLs) return immediately.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.store != nil {
		if data, found := f.store.Get(cache.Key(rawURL)); found {
			var page cachedPage
			if err := json.Unmarshal(data, &page); err == nil {
				return &FetchResult{HTML: page.HTML, FinalURL: page.FinalURL, FromCache: true}, nil
			}
		}
	}

	var lastErr error
	for attempt := 0; attempt < f.retries; attempt++ {
		if attempt > 0 {
			fetchSleepFunc(f.backoff * time.Duration(attempt))
		}

		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			f.cacheResult(rawURL, result)
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

// Fetch performs a single fetch attempt.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	crawlDelay := time.Duration(0)
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err == nil && !allowed {
			return nil, fmt.Errorf("blocked by robots.txt: %s", rawURL)
		}
		crawlDelay = delay
	}
	if f.limiter != nil {
		if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		HTML:     string(body),
		FinalURL: resp.Request.URL.String(),
	}, nil
}

// cacheResult stores a successful fetch. Cache failures are ignored;
// caching is an optimization, not a requirement.
func (f *Fetcher) cacheResult(rawURL string, result *FetchResult) {
	if f.store == nil {
		return
	}
	data, err := json.Marshal(cachedPage{HTML: result.HTML, FinalURL: result.FinalURL})
	if err != nil {
		return
	}
	_ = f.store.Set(cache.Key(rawURL), data, 0)
}

// isRetryableFetchError reports whether a fetch error is worth another
// attempt: server-side statuses (5xx, 429) and transport failures are,
// client-side statuses and malformed requests are not.
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.Contains(msg, "unexpected status: 5") || strings.Contains(msg, "unexpected status: 429") {
		return true
	}
	if strings.HasPrefix(msg, "fetch: ") {
		return true
	}
	return false
}
