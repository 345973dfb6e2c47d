package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// serveLogged runs one request through GinMiddleware and returns the
// recorded "HTTP Request" entry.
func serveLogged(t *testing.T, level zapcore.Level, register func(*gin.Engine), req *http.Request) (*observer.LoggedEntry, *httptest.ResponseRecorder) {
	t.Helper()

	core, recorded := observer.New(level)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	register(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	for _, entry := range recorded.All() {
		if entry.Message == "HTTP Request" {
			e := entry
			return &e, w
		}
	}
	return nil, w
}

func TestGinMiddleware_LevelsByStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"2xx logs info", http.StatusOK, zapcore.InfoLevel},
		{"4xx logs warn", http.StatusBadRequest, zapcore.WarnLevel},
		{"5xx logs error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/sales", nil)
			entry, w := serveLogged(t, zapcore.InfoLevel, func(r *gin.Engine) {
				r.GET("/api/v1/sales", func(c *gin.Context) {
					c.JSON(tt.status, gin.H{})
				})
			}, req)

			assert.Equal(t, tt.status, w.Code)
			require.NotNil(t, entry)
			assert.Equal(t, tt.level, entry.Level)
		})
	}
}

func TestGinMiddleware_CarriesRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-abc-123")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/parcels", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/parcels", nil))

	entries := recorded.All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "req-abc-123", entries[0].ContextMap()["request_id"])
}

func TestGinMiddleware_LogsQueryAndStandardFields(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/plots?status=AVAILABLE&page=1", nil)
	req.Header.Set("User-Agent", "estate-cli/1.0")

	entry, _ := serveLogged(t, zapcore.InfoLevel, func(r *gin.Engine) {
		r.GET("/api/v1/plots", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{})
		})
	}, req)

	require.NotNil(t, entry)
	fields := entry.ContextMap()
	assert.Contains(t, fields["query"], "status=AVAILABLE")
	for _, key := range []string{"status", "latency", "client_ip", "user_agent", "method", "path"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "estate-cli/1.0", fields["user_agent"])
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entries := recorded.All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "Panic recovered", entries[0].Message)
}

func TestGetGinLogger(t *testing.T) {
	t.Run("returns the request-scoped logger", func(t *testing.T) {
		core, _ := observer.New(zapcore.InfoLevel)

		var got *zap.Logger
		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/api/v1/ledger/entries", func(c *gin.Context) {
			got = GetGinLogger(c)
			c.JSON(http.StatusOK, gin.H{})
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/ledger/entries", nil))
		assert.NotNil(t, got)
	})

	t.Run("returns a usable no-op logger without middleware", func(t *testing.T) {
		var got *zap.Logger
		router := gin.New()
		router.GET("/bare", func(c *gin.Context) {
			got = GetGinLogger(c)
			c.JSON(http.StatusOK, gin.H{})
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/bare", nil))
		require.NotNil(t, got)
		assert.NotPanics(t, func() { got.Info("noop") })
	})
}
