package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"memo-notes/src/logger"
	"memo-notes/src/metrics"
	"memo-notes/src/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// テスト前の初期化
	gin.SetMode(gin.TestMode)
	logger.Log.SetLevel(logrus.ErrorLevel) // テスト時はエラーレベルのみ

	os.Exit(m.Run())
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/test/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})
	return r
}

func TestLoggerMiddleware(t *testing.T) {
	hook := logtest.NewLocal(logger.Log)
	logger.Log.SetLevel(logrus.DebugLevel)
	t.Cleanup(func() {
		logger.Log.SetLevel(logrus.ErrorLevel)
		hook.Reset()
	})

	r := newRouter(middleware.LoggerMiddleware("/health"))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": middleware.RequestID(c)})
	})

	t.Run("リクエストIDを発行", func(t *testing.T) {
		hook.Reset()
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test/1", nil)
		req.Header.Set("User-Agent", "test-agent")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		id := w.Header().Get(middleware.RequestIDHeader)
		assert.Regexp(t, `^[0-9a-f-]{36}$`, id)

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.InfoLevel, entry.Level)
		assert.Equal(t, id, entry.Data["request_id"])
		assert.Equal(t, "/test/:id", entry.Data["route"])
	})

	t.Run("クライアントのIDを引き継ぐ", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		req.Header.Set(middleware.RequestIDHeader, "client-req.42")
		r.ServeHTTP(w, req)

		assert.Equal(t, "client-req.42", w.Header().Get(middleware.RequestIDHeader))
		assert.Contains(t, w.Body.String(), "client-req.42")
	})

	t.Run("不正なIDは置き換える", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test/1", nil)
		req.Header.Set(middleware.RequestIDHeader, "bad id!")
		r.ServeHTTP(w, req)

		assert.NotEqual(t, "bad id!", w.Header().Get(middleware.RequestIDHeader))
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	tests := []struct {
		name  string
		path  string
		level logrus.Level
	}{
		{"指定ルートの成功はDebug", "/health", logrus.DebugLevel},
		{"未登録ルートはWarn", "/missing", logrus.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook.Reset()
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", tt.path, nil)
			r.ServeHTTP(w, req)

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tt.level, entry.Level)
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	t.Run("全オリジン許可", func(t *testing.T) {
		r := newRouter(middleware.CORSMiddleware(middleware.CORSConfig{AllowedOrigins: []string{"*"}, MaxAge: 24 * time.Hour}))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test/1", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), middleware.RequestIDHeader)

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("OPTIONS", "/test/1", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
		assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	})

	allowlist := middleware.CORSConfig{AllowedOrigins: []string{"https://notes.example.com"}, MaxAge: time.Hour}
	r := newRouter(middleware.CORSMiddleware(allowlist))

	tests := []struct {
		name        string
		method      string
		origin      string
		status      int
		allowOrigin string
	}{
		{"許可オリジンはそのまま返す", "GET", "https://notes.example.com", http.StatusOK, "https://notes.example.com"},
		{"許可オリジンのプリフライト", "OPTIONS", "https://notes.example.com", http.StatusNoContent, "https://notes.example.com"},
		{"未許可オリジンにはヘッダーなし", "GET", "https://evil.example.com", http.StatusOK, ""},
		{"未許可オリジンのプリフライトは403", "OPTIONS", "https://evil.example.com", http.StatusForbidden, ""},
		{"Originなしは通過", "GET", "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tt.method, "/test/1", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.allowOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			if tt.allowOrigin != "" {
				assert.Equal(t, "Origin", w.Header().Get("Vary"))
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	t.Run("バースト分だけ許可", func(t *testing.T) {
		limiter := middleware.NewRateLimiter(0.001, 2)

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))
	})

	t.Run("クライアントごとに独立", func(t *testing.T) {
		limiter := middleware.NewRateLimiter(0.001, 1)

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.2"))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newRouter(middleware.RateLimitMiddleware(middleware.NewRateLimiter(0.001, 1)))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test/1", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/test/1", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestMetricsMiddleware(t *testing.T) {
	collector := metrics.NewCollector()
	r := newRouter(middleware.MetricsMiddleware(collector))

	for _, path := range []string{"/test/1", "/test/2", "/missing"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		r.ServeHTTP(w, req)
	}

	// ルートテンプレート単位で集計される
	assert.Equal(t, float64(2), testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("GET", "/test/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	collector.Handler().ServeHTTP(w, req)
	assert.True(t, strings.Contains(w.Body.String(), "memo_http_requests_total"))
}
