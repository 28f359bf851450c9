package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/comitanigiacomo/kanso-habits/docs"
	"github.com/comitanigiacomo/kanso-habits/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
	applog "github.com/comitanigiacomo/kanso-habits/internal/log"
)

type RouterDependencies struct {
	AuthHandler       *AuthHandler
	HabitHandler      *HabitHandler
	CompletionHandler *CompletionHandler
	StatsHandler      *StatsHandler
	TokenService      *services.TokenService
	AuthRequired      bool

	// DB is nil for the in-memory backend, Redis when no REDIS_HOST is set.
	DB         *sqlx.DB
	Redis      *redis.Client
	RateLimit  int
	RateWindow time.Duration

	Logger    *applog.Logger
	StartTime time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = applog.Discard()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader, middleware.HeaderRateLimit, middleware.HeaderRateRemaining, middleware.HeaderRateReset}
	router.Use(cors.New(corsConfig))

	if deps.Redis != nil {
		limit, window := deps.RateLimit, deps.RateWindow
		if limit <= 0 {
			limit = 100
		}
		if window <= 0 {
			window = time.Minute
		}
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, limit, window, logger))
	}

	router.GET("/", index)
	router.GET("/health", health(deps))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	deps.AuthHandler.RegisterRoutes(router)

	api := router.Group("")
	api.Use(middleware.AuthMiddleware(deps.TokenService, deps.AuthRequired))
	{
		deps.HabitHandler.RegisterRoutes(api)
		deps.CompletionHandler.RegisterRoutes(api)
		deps.StatsHandler.RegisterRoutes(api)
	}

	return router
}

func index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "running",
		"message": "Habit Tracker API",
		"endpoints": gin.H{
			"register":       "POST /register",
			"login":          "POST /login",
			"create_habit":   "POST /habits",
			"complete_habit": "POST /habits/<habit_id>/complete",
			"get_habits":     "GET /habits?user_id=<user_id>",
			"history":        "GET /habits/history?user_id=<id>&start=YYYY-MM-DD&end=YYYY-MM-DD",
			"missed_today":   "GET /habits/missed/today?user_id=<id>",
			"missed_past":    "GET /habits/missed/previous?user_id=<id>",
			"performance":    "GET /habits/performance?user_id=<id>",
			"edit_habit":     "PUT /habits/<habit_id>",
			"delete_habit":   "DELETE /habits/<habit_id>",
			"remind_habit":   "POST /habits/<habit_id>/remind",
		},
	})
}

func health(deps RouterDependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "in-memory"
		if deps.DB != nil {
			dbStatus = "connected"
			if err := deps.DB.PingContext(c.Request.Context()); err != nil {
				dbStatus = "unreachable"
			}
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if err := deps.Redis.Ping(c.Request.Context()).Err(); err != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode := http.StatusOK
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":   "ok",
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	}
}
