package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRateLimiterRedisWindow(t *testing.T) {
	mr, client := newRedis(t)
	rl := NewRateLimiterWithConfig(3, time.Minute, WithRedis(client))
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		if !rl.Allow(ctx, "10.0.0.1") {
			t.Fatalf("attempt %d rejected", i)
		}
	}
	if rl.Allow(ctx, "10.0.0.1") {
		t.Fatal("fourth attempt should be rejected")
	}
	if !rl.Allow(ctx, "10.0.0.2") {
		t.Fatal("other clients keep their own budget")
	}

	if ttl := mr.TTL(rateLimitKeyPrefix + "10.0.0.1"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	if !rl.Allow(ctx, "10.0.0.1") {
		t.Fatal("window should reset after expiry")
	}
}

func TestRateLimiterSharedAcrossInstances(t *testing.T) {
	_, client := newRedis(t)
	ctx := context.Background()
	first := NewRateLimiterWithConfig(2, time.Minute, WithRedis(client))
	second := NewRateLimiterWithConfig(2, time.Minute, WithRedis(client))

	first.Allow(ctx, "ip")
	second.Allow(ctx, "ip")

	if first.Allow(ctx, "ip") {
		t.Fatal("counters should be shared through redis")
	}

	if err := first.Reset(ctx); err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	if !second.Allow(ctx, "ip") {
		t.Fatal("Reset should clear redis counters")
	}
}

func TestRateLimiterFallsBackWhenRedisIsDown(t *testing.T) {
	mr, client := newRedis(t)
	mr.Close()

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiterWithConfig(1, time.Minute,
		WithRedis(client),
		WithRateLimitClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	if !rl.Allow(ctx, "ip") {
		t.Fatal("first attempt rejected")
	}
	if rl.Allow(ctx, "ip") {
		t.Fatal("local fallback should still enforce the limit")
	}

	now = now.Add(2 * time.Minute)
	if !rl.Allow(ctx, "ip") {
		t.Fatal("local window should reset")
	}
	rl.Cleanup()
}

func TestRateLimiterMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiterWithConfig(1, time.Minute)

	router := gin.New()
	router.POST("/login", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 2)
	for range 2 {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "192.168.1.5:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 429]", codes)
	}
}
