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

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within limit", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("office-a"), "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("office-b"))
		}
		assert.False(t, limiter.Allow("office-b"))
	})

	t.Run("tracks each key separately", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		assert.True(t, limiter.Allow("office-a"))
		assert.True(t, limiter.Allow("office-a"))
		assert.False(t, limiter.Allow("office-a"))

		assert.True(t, limiter.Allow("office-b"))
		assert.True(t, limiter.Allow("office-b"))
	})

	t.Run("budget resets after the window", func(t *testing.T) {
		limiter := NewRateLimiter(2, 50*time.Millisecond)

		assert.True(t, limiter.Allow("office-c"))
		assert.True(t, limiter.Allow("office-c"))
		assert.False(t, limiter.Allow("office-c"))

		time.Sleep(60 * time.Millisecond)

		assert.True(t, limiter.Allow("office-c"))
	})

	t.Run("remaining reports the open budget", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		assert.Equal(t, 5, limiter.Remaining("fresh"))

		limiter.Allow("fresh")
		limiter.Allow("fresh")

		assert.Equal(t, 3, limiter.Remaining("fresh"))
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

func newRateLimitedRouter(limiter *RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(RateLimit(limiter))
	router.GET("/tours", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func doGet(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/tours", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("allows requests within limit", func(t *testing.T) {
		router := newRateLimitedRouter(NewRateLimiter(3, time.Minute))

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, doGet(router, "").Code)
		}
	})

	t.Run("returns 429 with error envelope when exhausted", func(t *testing.T) {
		router := newRateLimitedRouter(NewRateLimiter(2, time.Minute))

		doGet(router, "")
		doGet(router, "")
		w := doGet(router, "")

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	})

	t.Run("exposes budget headers", func(t *testing.T) {
		router := newRateLimitedRouter(NewRateLimiter(5, time.Minute))

		w := doGet(router, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("sets Retry-After when blocked", func(t *testing.T) {
		router := newRateLimitedRouter(NewRateLimiter(1, time.Minute))

		doGet(router, "")
		w := doGet(router, "")

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
	})

	t.Run("limits client IPs independently", func(t *testing.T) {
		router := newRateLimitedRouter(NewRateLimiter(1, time.Minute))

		assert.Equal(t, http.StatusOK, doGet(router, "10.0.0.1:1234").Code)
		assert.Equal(t, http.StatusTooManyRequests, doGet(router, "10.0.0.1:1234").Code)
		assert.Equal(t, http.StatusOK, doGet(router, "10.0.0.2:1234").Code)
	})
}

func TestRateLimitByKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("uses the custom key extractor", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		router := gin.New()
		router.Use(RateLimitByKey(limiter, func(c *gin.Context) string {
			return c.GetHeader("X-Agency-ID")
		}))
		router.GET("/tours", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		send := func(agency string) *httptest.ResponseRecorder {
			req := httptest.NewRequest("GET", "/tours", nil)
			req.Header.Set("X-Agency-ID", agency)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w
		}

		assert.Equal(t, http.StatusOK, send("agency-7").Code)
		assert.Equal(t, http.StatusTooManyRequests, send("agency-7").Code)
		assert.Equal(t, http.StatusOK, send("agency-9").Code)
	})
}
