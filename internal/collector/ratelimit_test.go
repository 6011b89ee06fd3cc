package collector

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterPacesSameHost(t *testing.T) {
	limiter := NewRateLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	if err := limiter.Wait(ctx, "https://example.com/one"); err != nil {
		t.Fatalf("First wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "https://example.com/two"); err != nil {
		t.Fatalf("Second wait failed: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 50*time.Millisecond {
		t.Errorf("Expected second request to wait at least 50ms, total elapsed %v", elapsed)
	}
}

func TestRateLimiterSeparateHosts(t *testing.T) {
	limiter := NewRateLimiter(1 * time.Second)
	ctx := context.Background()

	start := time.Now()
	if err := limiter.Wait(ctx, "https://a.example.com/"); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "https://b.example.com/"); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	elapsed := time.Since(start)

	// Different hosts have independent limiters; neither should block
	if elapsed > 500*time.Millisecond {
		t.Errorf("Requests to distinct hosts should not be serialized, elapsed %v", elapsed)
	}
}

func TestRateLimiterInvalidURL(t *testing.T) {
	limiter := NewRateLimiter(10 * time.Millisecond)

	if err := limiter.Wait(context.Background(), "://not-a-url"); err == nil {
		t.Error("Expected error for unparseable URL")
	}
}

func TestRateLimiterDefaultDelay(t *testing.T) {
	limiter := NewRateLimiter(0)
	if limiter.delay != 100*time.Millisecond {
		t.Errorf("Expected default delay 100ms, got %v", limiter.delay)
	}
}
