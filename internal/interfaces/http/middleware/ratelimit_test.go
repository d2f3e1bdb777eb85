package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	t.Run("budget is consumed per key", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("partner-a"), "request %d", i+1)
		}
		assert.False(t, limiter.Allow("partner-a"))

		// Another partner still has a full budget.
		assert.True(t, limiter.Allow("partner-b"))
	})

	t.Run("budget refills when the window rolls over", func(t *testing.T) {
		limiter := NewRateLimiter(2, 40*time.Millisecond)

		assert.True(t, limiter.Allow("partner-a"))
		assert.True(t, limiter.Allow("partner-a"))
		assert.False(t, limiter.Allow("partner-a"))

		time.Sleep(50 * time.Millisecond)
		assert.True(t, limiter.Allow("partner-a"))
	})

	t.Run("remaining tracks the current window", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		assert.Equal(t, 5, limiter.Remaining("partner-a"))
		limiter.Allow("partner-a")
		limiter.Allow("partner-a")
		assert.Equal(t, 3, limiter.Remaining("partner-a"))
	})

	t.Run("concurrent callers never exceed the budget", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, allowed)
	})
}

func limitedRouter(limiter *RateLimiter, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(extra...)
	engine.Use(RateLimit(limiter))
	engine.GET("/v1/offers", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return engine
}

func getOffers(engine *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/offers", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("rejects with 429 once the budget is spent", func(t *testing.T) {
		engine := limitedRouter(NewRateLimiter(2, time.Minute))

		assert.Equal(t, http.StatusOK, getOffers(engine, nil).Code)
		assert.Equal(t, http.StatusOK, getOffers(engine, nil).Code)

		rec := getOffers(engine, nil)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Body.String(), "ERR_RATE_LIMITED")
	})

	t.Run("exposes the limit headers", func(t *testing.T) {
		engine := limitedRouter(NewRateLimiter(5, time.Minute))

		rec := getOffers(engine, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("authenticated partners are limited independently", func(t *testing.T) {
		// Stands in for the JWT middleware storing the subject.
		identify := func(c *gin.Context) {
			c.Set(JWTUserIDKey, c.GetHeader("X-Test-User"))
		}
		engine := limitedRouter(NewRateLimiter(1, time.Minute), identify)

		assert.Equal(t, http.StatusOK, getOffers(engine, map[string]string{"X-Test-User": "partner-1"}).Code)
		assert.Equal(t, http.StatusTooManyRequests, getOffers(engine, map[string]string{"X-Test-User": "partner-1"}).Code)
		assert.Equal(t, http.StatusOK, getOffers(engine, map[string]string{"X-Test-User": "partner-2"}).Code)
	})
}

func TestRateLimitByKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(1, time.Minute)
	engine := gin.New()
	engine.Use(RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.GetHeader("X-Forwarded-For")
	}))
	engine.POST("/v1/auth/login", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	attempt := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, attempt("203.0.113.9"))
	assert.Equal(t, http.StatusTooManyRequests, attempt("203.0.113.9"))
	assert.Equal(t, http.StatusOK, attempt("203.0.113.10"))
}
