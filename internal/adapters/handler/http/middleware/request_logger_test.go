package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	applog "github.com/comitanigiacomo/kanso-habits/internal/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setup := func() (*gin.Engine, *bytes.Buffer) {
		var buf bytes.Buffer
		logger := applog.New(applog.Config{Output: &buf, Level: slog.LevelDebug})

		router := gin.New()
		router.Use(RequestLogger(logger))
		router.GET("/ok", func(c *gin.Context) {
			c.Set(ContextUserIDKey, int64(42))
			c.Status(http.StatusOK)
		})
		router.GET("/boom", func(c *gin.Context) {
			c.Status(http.StatusInternalServerError)
		})
		return router, &buf
	}

	t.Run("Success: Generates a request id", func(t *testing.T) {
		router, buf := setup()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.Contains(t, buf.String(), "request_id="+id)
		assert.Contains(t, buf.String(), "status_code=200")
		assert.Contains(t, buf.String(), "user_id=42")
		assert.Contains(t, buf.String(), "component=http")
	})

	t.Run("Success: Reuses the caller's request id", func(t *testing.T) {
		router, buf := setup()

		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
		assert.Contains(t, buf.String(), "request_id=abc-123")
	})

	t.Run("Success: Server errors log at error level", func(t *testing.T) {
		router, buf := setup()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, buf.String(), "level=ERROR")
	})
}
