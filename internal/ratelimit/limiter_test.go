package ratelimit

import (
	"net/http"
	"sync"
	"testing"
	"time"
)

// mockClock is a controllable clock for testing.
type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestAllow_Cooldown(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		Cooldown:     60 * time.Second,
		MaxPerHour:   100,
		MaxIPPerHour: 200,
		Clock:        clock,
	})
	defer limiter.Close()

	token := "bearer-abc"
	ip := "203.0.113.7"

	result := limiter.Allow("toggle", token, ip)
	if !result.Allowed {
		t.Errorf("First call should be allowed, got blocked: %s", result.Reason)
	}

	// Second call within cooldown should be blocked
	clock.Advance(30 * time.Second)
	result = limiter.Allow("toggle", token, ip)
	if result.Allowed {
		t.Error("Second call within cooldown should be blocked")
	}
	if result.Reason != "cooldown" {
		t.Errorf("Expected reason 'cooldown', got '%s'", result.Reason)
	}
	if result.RetryAfter != 30*time.Second {
		t.Errorf("Expected RetryAfter 30s, got %v", result.RetryAfter)
	}

	// After cooldown expires, should be allowed
	clock.Advance(31 * time.Second)
	result = limiter.Allow("toggle", token, ip)
	if !result.Allowed {
		t.Errorf("Call after cooldown should be allowed, got blocked: %s", result.Reason)
	}
}

func TestAllow_HourlyLimit(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		Cooldown:     1 * time.Millisecond,
		MaxPerHour:   3,
		MaxIPPerHour: 200,
		Clock:        clock,
	})
	defer limiter.Close()

	token := "bearer-abc"
	ip := "203.0.113.7"

	for i := 0; i < 3; i++ {
		clock.Advance(time.Second)
		result := limiter.Allow("export", token, ip)
		if !result.Allowed {
			t.Fatalf("Call %d should be allowed, got blocked: %s", i+1, result.Reason)
		}
	}

	clock.Advance(time.Second)
	result := limiter.Allow("export", token, ip)
	if result.Allowed {
		t.Error("Fourth call should exceed hourly limit")
	}
	if result.Reason != "hourly_limit" {
		t.Errorf("Expected reason 'hourly_limit', got '%s'", result.Reason)
	}

	// A fresh window clears the count
	clock.Advance(time.Hour + time.Second)
	result = limiter.Allow("export", token, ip)
	if !result.Allowed {
		t.Errorf("Call in next window should be allowed, got blocked: %s", result.Reason)
	}
}

func TestAllow_IPLimit(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		Cooldown:     1 * time.Millisecond,
		MaxPerHour:   100,
		MaxIPPerHour: 2,
		Clock:        clock,
	})
	defer limiter.Close()

	ip := "203.0.113.7"

	// Different tokens, same IP
	for i, token := range []string{"t1", "t2"} {
		clock.Advance(time.Second)
		result := limiter.Allow("submit", token, ip)
		if !result.Allowed {
			t.Fatalf("Call %d should be allowed, got blocked: %s", i+1, result.Reason)
		}
	}

	clock.Advance(time.Second)
	result := limiter.Allow("submit", "t3", ip)
	if result.Allowed {
		t.Error("Third token from same IP should exceed IP limit")
	}
	if result.Reason != "ip_hourly_limit" {
		t.Errorf("Expected reason 'ip_hourly_limit', got '%s'", result.Reason)
	}
}

func TestAllow_OpsAreIndependent(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		Cooldown:     60 * time.Second,
		MaxPerHour:   100,
		MaxIPPerHour: 200,
		Clock:        clock,
	})
	defer limiter.Close()

	token := "bearer-abc"
	ip := "203.0.113.7"

	if result := limiter.Allow("toggle", token, ip); !result.Allowed {
		t.Fatalf("toggle should be allowed: %s", result.Reason)
	}
	// The toggle cooldown must not block an export
	if result := limiter.Allow("export", token, ip); !result.Allowed {
		t.Errorf("export should be unaffected by toggle cooldown: %s", result.Reason)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		trustProxy bool
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.7:54321",
			want:       "203.0.113.7",
		},
		{
			name:       "xff ignored without trust",
			remoteAddr: "203.0.113.7:54321",
			xff:        "198.51.100.1",
			trustProxy: false,
			want:       "203.0.113.7",
		},
		{
			name:       "xff honored with trust",
			remoteAddr: "10.0.0.5:443",
			xff:        "198.51.100.1",
			trustProxy: true,
			want:       "198.51.100.1",
		},
		{
			name:       "rightmost public ip wins",
			remoteAddr: "10.0.0.5:443",
			xff:        "198.51.100.1, 203.0.113.9, 10.0.0.2",
			trustProxy: true,
			want:       "203.0.113.9",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "10.0.0.5:443",
			xri:        "198.51.100.1",
			trustProxy: true,
			want:       "198.51.100.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &http.Request{RemoteAddr: tt.remoteAddr, Header: http.Header{}}
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := GetClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
