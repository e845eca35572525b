package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"taskpal/config"
	otelMocks "taskpal/infras/otel/mocks"
	cacheMocks "taskpal/shared/cache/mocks"
	"taskpal/shared/constant"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newLimitedApp(t *testing.T, enable bool) (*appMiddleware, *cacheMocks.MockRedisCache) {
	t.Helper()

	cache := cacheMocks.NewMockRedisCache(gomock.NewController(t))

	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = enable
	cfg.App.RateLimiter.MaxRequests = 3
	cfg.App.RateLimiter.WindowSeconds = 60

	return &appMiddleware{otel: otelMocks.NewOtel(), config: cfg, cache: cache}, cache
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		count         int64
		cacheErr      error
		wantStatus    int
		wantRemaining string
	}{
		{name: "first request", count: 1, wantStatus: http.StatusOK, wantRemaining: "2"},
		{name: "last allowed request", count: 3, wantStatus: http.StatusOK, wantRemaining: "0"},
		{name: "over the limit", count: 4, wantStatus: http.StatusTooManyRequests, wantRemaining: "0"},
		{name: "cache down lets the request through", cacheErr: errors.New("dial tcp: connection refused"), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, cache := newLimitedApp(t, true)

			cache.EXPECT().
				Increment(gomock.Any(), "limiter:203.0.113.7:taskpal-mobile", time.Minute).
				Return(tt.count, tt.cacheErr)

			handler := app.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/providers/", nil)
			req.RemoteAddr = "203.0.113.7:51234"
			req.Header.Set(constant.RequestHeaderUserAgent, "taskpal-mobile")

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
		})
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	app, _ := newLimitedApp(t, false)

	called := false
	handler := app.RateLimit()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.True(t, called)
}

func TestGetClientIP(t *testing.T) {
	app, _ := newLimitedApp(t, true)

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{constant.RequestHeaderForwardedFor: "198.51.100.1, 10.0.0.2"}, remote: "10.0.0.3:80", want: "198.51.100.1"},
		{name: "real ip", headers: map[string]string{constant.RequestHeaderRealIP: " 198.51.100.9 "}, remote: "10.0.0.3:80", want: "198.51.100.9"},
		{name: "peer address", remote: "192.0.2.4:4431", want: "192.0.2.4"},
		{name: "peer without port", remote: "192.0.2.4", want: "192.0.2.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote

			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			assert.Equal(t, tt.want, app.getClientIP(req))
		})
	}
}
