package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/foodgram-go/internal/handlers"
	"github.com/serroba/foodgram-go/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOutput struct {
	Body string `json:"body"`
}

func setupTestAPI(t *testing.T) (*chi.Mux, huma.API) {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(api))

	return router, api
}

// captureMeta registers GET /test and returns a channel receiving the
// request metadata the handler observed.
func captureMeta(api huma.API) <-chan handlers.RequestMeta {
	metas := make(chan handlers.RequestMeta, 1)

	huma.Get(api, "/test", func(ctx context.Context, _ *struct{}) (*testOutput, error) {
		metas <- handlers.RequestMetaFromContext(ctx)

		return &testOutput{Body: "ok"}, nil
	})

	return metas
}

func TestRequestMeta(t *testing.T) {
	t.Run("extracts user-agent and referrer", func(t *testing.T) {
		router, api := setupTestAPI(t)
		metas := captureMeta(api)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("User-Agent", "TestAgent/1.0")
		req.Header.Set("Referer", "https://example.com")

		router.ServeHTTP(httptest.NewRecorder(), req)

		meta := <-metas
		assert.Equal(t, "TestAgent/1.0", meta.UserAgent)
		assert.Equal(t, "https://example.com", meta.Referrer)
	})

	t.Run("client ip", func(t *testing.T) {
		tests := []struct {
			name     string
			headers  map[string]string
			expected string
		}{
			{"single forwarded ip", map[string]string{"X-Forwarded-For": "203.0.113.195"}, "203.0.113.195"},
			{"first of many forwarded ips", map[string]string{"X-Forwarded-For": "203.0.113.195, 70.41.3.18"}, "203.0.113.195"},
			{"real ip header", map[string]string{"X-Real-IP": "198.51.100.7"}, "198.51.100.7"},
			{"remote address", nil, "192.0.2.1"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				router, api := setupTestAPI(t)
				metas := captureMeta(api)

				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				for k, v := range tt.headers {
					req.Header.Set(k, v)
				}

				router.ServeHTTP(httptest.NewRecorder(), req)

				assert.Equal(t, tt.expected, (<-metas).ClientIP)
			})
		}
	})

	t.Run("anonymous without user header", func(t *testing.T) {
		router, api := setupTestAPI(t)
		metas := captureMeta(api)

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Zero(t, (<-metas).UserID)
	})

	t.Run("reads user id header", func(t *testing.T) {
		router, api := setupTestAPI(t)
		metas := captureMeta(api)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(middleware.HeaderUserID, "42")

		router.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, int64(42), (<-metas).UserID)
	})

	t.Run("rejects malformed user id", func(t *testing.T) {
		for _, raw := range []string{"abc", "0", "-3"} {
			router, api := setupTestAPI(t)
			_ = captureMeta(api)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(middleware.HeaderUserID, raw)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code, raw)
		}
	})

	t.Run("propagates request id", func(t *testing.T) {
		router, api := setupTestAPI(t)
		metas := captureMeta(api)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(middleware.HeaderRequestID, "req-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-1", (<-metas).RequestID)
		assert.Equal(t, "req-1", w.Header().Get(middleware.HeaderRequestID))
	})

	t.Run("generates request id", func(t *testing.T) {
		router, api := setupTestAPI(t)
		metas := captureMeta(api)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		meta := <-metas
		require.NotEmpty(t, meta.RequestID)
		assert.Equal(t, meta.RequestID, w.Header().Get(middleware.HeaderRequestID))
	})
}
