package worker

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles outbound requests per domain. Every domain gets its
// own token bucket so a slow host never starves fetches to the rest.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a per-domain limiter. A rate of zero or less means
// unlimited; a burst of zero or less falls back to 5.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until the URL's domain has a token to spend, or the
// context is cancelled.
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	domain, err := extractDomain(rawURL)
	if err != nil {
		return err
	}

	return l.forDomain(domain).Wait(ctx)
}

// WaitWithDelay waits for a token and then sleeps out an additional
// per-request delay. The fetcher uses this to honor robots.txt
// crawl-delay directives on top of the configured rate.
func (l *Limiter) WaitWithDelay(ctx context.Context, rawURL string, delay time.Duration) error {
	if err := l.Wait(ctx, rawURL); err != nil {
		return err
	}

	if delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil
}

// Allow reports whether a request to the URL's domain could proceed
// right now, consuming a token if so. Malformed URLs are never allowed.
func (l *Limiter) Allow(rawURL string) bool {
	domain, err := extractDomain(rawURL)
	if err != nil {
		return false
	}

	return l.forDomain(domain).Allow()
}

// forDomain returns the domain's bucket, creating it on first use.
func (l *Limiter) forDomain(domain string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[domain]
	l.mu.RUnlock()

	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Another goroutine may have created it between the locks.
	if limiter, ok := l.limiters[domain]; ok {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[domain] = limiter

	return limiter
}

func extractDomain(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return parsed.Host, nil
}
