package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLimiter struct {
	result *Result
	err    error

	lastIP   string
	lastType RateLimitType
}

func (f *fakeLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	f.lastIP = clientIP
	f.lastType = limitType
	return f.result, f.err
}

func serveWithLimiter(limiter Limiter, method, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Middleware(limiter))
	engine.Handle(method, path, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "203.0.113.7:52100"
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestMiddleware_AllowsAndSetsHeaders(t *testing.T) {
	limiter := &fakeLimiter{
		result: &Result{Allowed: true, Limit: 100, Remaining: 99, ResetTime: 1700000000},
	}

	recorder := serveWithLimiter(limiter, http.MethodGet, "/api/v1/events")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "100", recorder.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "99", recorder.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "203.0.113.7", limiter.lastIP)
}

func TestMiddleware_RejectsWhenOverLimit(t *testing.T) {
	limiter := &fakeLimiter{
		result: &Result{Allowed: false, Limit: 5, Remaining: 0, ResetTime: 1700000000},
	}

	recorder := serveWithLimiter(limiter, http.MethodPost, "/api/v1/registrations")

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "5", recorder.Header().Get("X-RateLimit-Limit"))
	assert.Contains(t, recorder.Body.String(), "Rate limit exceeded")
}

func TestMiddleware_FailsOpenOnLimiterError(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis unavailable")}

	recorder := serveWithLimiter(limiter, http.MethodGet, "/api/v1/events")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, recorder.Header().Get("X-RateLimit-Limit"))
}

func TestGetRateLimitType(t *testing.T) {
	cases := []struct {
		path   string
		method string
		want   RateLimitType
	}{
		{"/health", http.MethodGet, RateLimitTypeHealth},
		{"/ping", http.MethodGet, RateLimitTypeHealth},
		{"/api/v1/registrations", http.MethodPost, RateLimitTypeRegistration},
		{"/api/v1/registrations/:id/tickets", http.MethodPost, RateLimitTypeRegistration},
		{"/api/v1/tickets/check-in", http.MethodPost, RateLimitTypeRegistration},
		{"/api/v1/events", http.MethodPost, RateLimitTypeAdmin},
		{"/api/v1/events/:id/capacity", http.MethodPatch, RateLimitTypeAdmin},
		{"/api/v1/events", http.MethodGet, RateLimitTypePublic},
		{"/api/v1/events/:id/waitlist/position", http.MethodGet, RateLimitTypePublic},
		{"/api/v1/users/registrations", http.MethodGet, RateLimitTypeDefault},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, getRateLimitType(tc.path, tc.method), "%s %s", tc.method, tc.path)
	}
}
