package utils

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextLogger_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	base := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	r := gin.New()
	r.Use(ContextLogger(base))
	r.GET("/ping", func(c *gin.Context) {
		GetLoggerFromContext(c).Info("pong")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestGetLoggerFromContext_Fallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	require.NotNil(t, GetLoggerFromContext(c))

	custom := NewDevelopmentLogger()
	WithLogger(c, custom)
	assert.Same(t, custom, GetLoggerFromContext(c))
}

func TestToSlogLogger(t *testing.T) {
	l := NewLogger("production")
	assert.NotNil(t, ToSlogLogger(l))
	assert.IsType(t, &SlogLogger{}, NewLogger("development"))
}
