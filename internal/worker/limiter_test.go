package worker

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_ZeroRateUnlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	if limiter.defaultRate != rate.Inf {
		t.Errorf("expected unlimited rate for zero input, got %v", limiter.defaultRate)
	}

	// Burst 1 with an infinite rate must never block.
	url := "http://example.com"
	for i := 0; i < 10; i++ {
		if !limiter.Allow(url) {
			t.Fatalf("request %d denied under unlimited rate", i)
		}
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/foo"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// A different domain has its own bucket.
	if err := limiter.Wait(ctx, "http://other.example/"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	start := time.Now()
	err := limiter.WaitWithDelay(ctx, "http://example.com", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitWithDelay failed: %v", err)
	}

	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("expected delay >= 50ms, got %v", elapsed)
	}
}

func TestLimiter_WaitWithDelay_Cancelled(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.WaitWithDelay(ctx, "http://example.com", time.Second); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestLimiter_PerDomainBuckets(t *testing.T) {
	// 1 rps, burst 1: each domain gets exactly one immediate token.
	limiter := NewLimiter(1, 1)
	ctx := context.Background()
	url := "http://example.com"

	if err := limiter.Wait(ctx, url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	if limiter.Allow(url) {
		t.Error("expected token exhaustion on same domain")
	}

	if !limiter.Allow("http://other.example") {
		t.Error("expected fresh bucket for other domain")
	}
}

func TestLimiter_MalformedURL(t *testing.T) {
	limiter := NewLimiter(100, 1)

	if limiter.Allow("::invalid") {
		t.Error("expected malformed URL to be denied")
	}
	if err := limiter.Wait(context.Background(), "::invalid"); err == nil {
		t.Error("expected error for malformed URL")
	}
}

func TestExtractDomain(t *testing.T) {
	domain, err := extractDomain("http://example.com/foo")
	if err != nil {
		t.Fatalf("extractDomain failed: %v", err)
	}
	if domain != "example.com" {
		t.Errorf("expected example.com, got %s", domain)
	}

	if _, err := extractDomain("::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
}
