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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestRedisLimiter(t *testing.T) {
	client, mr := setupTestRedis(t)
	limiter := NewRedisLimiter(client)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "1.2.3.4", 2, time.Minute))
	assert.True(t, limiter.Allow(ctx, "1.2.3.4", 2, time.Minute))
	assert.False(t, limiter.Allow(ctx, "1.2.3.4", 2, time.Minute))
	assert.True(t, limiter.Allow(ctx, "5.6.7.8", 2, time.Minute))

	mr.FastForward(time.Minute + time.Second)
	assert.True(t, limiter.Allow(ctx, "1.2.3.4", 2, time.Minute))
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	client, mr := setupTestRedis(t)
	limiter := NewRedisLimiter(client)
	mr.Close()

	assert.True(t, limiter.Allow(context.Background(), "1.2.3.4", 1, time.Minute))
	assert.True(t, limiter.Allow(context.Background(), "1.2.3.4", 1, time.Minute))
}

func TestMemoryLimiterWindow(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "k", 1, time.Minute))
	assert.False(t, limiter.Allow(ctx, "k", 1, time.Minute))

	now = now.Add(2 * time.Minute)
	assert.True(t, limiter.Allow(ctx, "k", 1, time.Minute))
}

func TestMemoryLimiterDropsExpiredBuckets(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for _, ip := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		assert.True(t, limiter.Allow(ctx, ip, 1, time.Minute))
	}
	assert.Len(t, limiter.buckets, 3)

	now = now.Add(2 * time.Minute)
	assert.True(t, limiter.Allow(ctx, "4.4.4.4", 1, time.Minute))
	assert.Len(t, limiter.buckets, 1)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/vacantes/:url", RateLimit(NewMemoryLimiter(), 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/vacantes/a", nil))
	assert.Equal(t, http.StatusCreated, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/vacantes/b", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
