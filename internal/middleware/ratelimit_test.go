package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestRateLimitMiddleware(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := echo.New()

	limiter := NewRateLimiter(3, time.Second)
	defer limiter.Stop()
	rateLimitMW := RateLimitMiddleware(limiter, nil)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}

	request := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		assert.NoError(t, rateLimitMW(handler)(c))
		return rec
	}

	t.Run("制限内のリクエストは通る", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			rec := request("192.168.1.1:12345")
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("制限を超えると429", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			request("192.168.1.2:12345")
		}

		rec := request("192.168.1.2:12345")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
	})

	t.Run("IPごとに独立して数える", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			request("192.168.1.3:12345")
		}

		rec := request("192.168.1.4:12345")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimiter_WindowReset(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Stop()

	now := time.Date(2026, 2, 14, 19, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))

	now = now.Add(time.Minute + time.Second)
	assert.True(t, limiter.Allow("10.0.0.1"))
}

func TestRateLimiter_Sweep(t *testing.T) {
	limiter := NewRateLimiter(5, time.Minute)
	defer limiter.Stop()

	now := time.Date(2026, 2, 14, 19, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Allow("10.0.0.1")
	limiter.Allow("10.0.0.2")

	now = now.Add(2 * time.Minute)
	limiter.sweep()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Empty(t, limiter.requests)
}

func TestRateLimiter_StopTwice(t *testing.T) {
	defer goleak.VerifyNone(t)

	limiter := NewRateLimiter(1, 10*time.Millisecond)
	limiter.Stop()
	limiter.Stop()
}
