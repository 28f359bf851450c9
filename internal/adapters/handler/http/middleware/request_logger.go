package middleware

import (
	"log/slog"
	"time"

	applog "github.com/comitanigiacomo/kanso-habits/internal/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader     = "X-Request-ID"
	ContextRequestIDKey = "requestID"
)

// RequestLogger tags every request with an id (reusing X-Request-ID when the
// caller sent one) and logs one line per request once it completes.
func RequestLogger(logger *applog.Logger) gin.HandlerFunc {
	logger = logger.WithComponent(applog.ComponentHTTP)

	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			applog.FieldRequestID, requestID,
			applog.FieldMethod, c.Request.Method,
			applog.FieldPath, c.Request.URL.Path,
			applog.FieldStatusCode, status,
			applog.FieldClientIP, c.ClientIP(),
			applog.FieldDuration, time.Since(start).Milliseconds(),
		}
		if userID, ok := GetUserID(c); ok {
			attrs = append(attrs, applog.FieldUserID, userID)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, applog.FieldError, c.Errors.String())
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "request completed", attrs...)
	}
}
