package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	applog "github.com/comitanigiacomo/kanso-habits/internal/log"
)

const (
	HeaderRateLimit     = "X-RateLimit-Limit"
	HeaderRateRemaining = "X-RateLimit-Remaining"
	HeaderRateReset     = "X-RateLimit-Reset"

	rateLimitPrefix = "habits:ratelimit:"
)

// Counts one request and starts the window on the first one, atomically.
// Returns {count, milliseconds left in the window}.
var rateLimitScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {count, redis.call("PTTL", KEYS[1])}
`)

// RateLimiterMiddleware allows limit requests per client IP per window.
// It fails open when Redis is unavailable.
func RateLimiterMiddleware(rdb *redis.Client, limit int, window time.Duration, logger *applog.Logger) gin.HandlerFunc {
	logger = logger.WithComponent(applog.ComponentRateLimit)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		key := rateLimitPrefix + clientIP

		res, err := rateLimitScript.Run(c.Request.Context(), rdb, []string{key}, window.Milliseconds()).Int64Slice()
		if err != nil || len(res) != 2 {
			logger.Warn("redis unavailable, rate limiter skipped", applog.FieldKey, key, applog.FieldError, err)
			c.Next()
			return
		}

		count := res[0]
		left := time.Duration(res[1]) * time.Millisecond
		if left <= 0 {
			left = window
		}

		c.Header(HeaderRateLimit, strconv.Itoa(limit))
		c.Header(HeaderRateRemaining, strconv.FormatInt(max(0, int64(limit)-count), 10))
		c.Header(HeaderRateReset, strconv.FormatInt(time.Now().Add(left).Unix(), 10))

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(left.Seconds()))))
			logger.Info("request throttled", applog.FieldClientIP, clientIP, applog.FieldPath, c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Slow down!"})
			return
		}

		c.Next()
	}
}
