package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-habits/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-habits/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-habits/internal/adapters/messaging"
	"github.com/comitanigiacomo/kanso-habits/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-habits/internal/adapters/storage"
	"github.com/comitanigiacomo/kanso-habits/internal/config"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
	"github.com/comitanigiacomo/kanso-habits/internal/core/workers"
	applog "github.com/comitanigiacomo/kanso-habits/internal/log"
)

//	@title			Kanso Habits API
//	@version		1.0
//	@description	Habit tracking service: habits, daily completions, streaks and consistency.
//	@BasePath		/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

type repositories struct {
	habits      domain.HabitRepository
	completions domain.CompletionRepository
	users       domain.UserRepository
}

func main() {
	startTime := time.Now()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentApp,
		Output:    os.Stdout,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", applog.FieldOperation, applog.OpStartup, applog.FieldError, err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	var rdb *redis.Client
	if addr := cfg.RedisAddr(); addr != "" {
		rdb, err = cache.NewRedisClient(ctx, cache.Options{Addr: addr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			logger.Error("failed to connect to redis", applog.FieldOperation, applog.OpStartup, applog.FieldError, err)
			os.Exit(1)
		}
		defer rdb.Close()
		repos.habits = repository.NewCachedHabitRepository(repos.habits, rdb, logger)
		logger.Info("redis connected", "addr", addr)
	}

	notifier, closeNotifier := newNotifier(cfg, logger)
	defer closeNotifier()

	reminders := workers.NewReminderWorker(notifier, workers.DefaultQueueSize, logger)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	reminders.Start(workerCtx)

	clock := services.SystemClock(cfg.Location())
	authService := services.NewAuthService(repos.users)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL, repos.users)
	habitService := services.NewHabitService(repos.habits, repos.completions, repos.users, clock).WithReminders(reminders)
	completionService := services.NewCompletionService(repos.completions, repos.habits, clock)
	statsService := services.NewStatsService(repos.habits, repos.completions, clock)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:       adapterHTTP.NewAuthHandler(authService, tokenService),
		HabitHandler:      adapterHTTP.NewHabitHandler(habitService),
		CompletionHandler: adapterHTTP.NewCompletionHandler(completionService),
		StatsHandler:      adapterHTTP.NewStatsHandler(statsService),
		TokenService:      tokenService,
		AuthRequired:      cfg.AuthRequired,
		DB:                db,
		Redis:             rdb,
		RateLimit:         cfg.RateLimit,
		RateWindow:        cfg.RateWindow,
		Logger:            logger.WithComponent(applog.ComponentHTTP),
		StartTime:         startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("habit service listening", "addr", "http://localhost:"+cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", applog.FieldError, err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("stop signal received, shutting down", applog.FieldOperation, applog.OpShutdown)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", applog.FieldError, err)
	}

	stopWorker()
	reminders.Wait()

	logger.Info("server stopped gracefully")
}

// openRepositories picks the storage backend. db is nil for the in-memory one.
func openRepositories(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*sqlx.DB, repositories, error) {
	var opts storage.Options
	switch cfg.DataBackend {
	case config.BackendPostgres:
		opts = storage.Options{Driver: cfg.DBDriver, DSN: cfg.DSN()}
	case config.BackendSQLite:
		opts = storage.Options{Driver: storage.DriverSQLite, DSN: cfg.SQLiteDBPath}
	default:
		logger.Warn("using in-memory storage, data is lost on restart")
		completions := repository.NewInMemoryCompletionRepository()
		return nil, repositories{
			habits:      repository.NewInMemoryHabitRepository(completions),
			completions: completions,
			users:       repository.NewInMemoryUserRepository(),
		}, nil
	}

	db, err := storage.Open(ctx, opts)
	if err != nil {
		return nil, repositories{}, err
	}
	logger.WithComponent(applog.ComponentStorage).Info("database connected", "driver", opts.Driver)

	return db, repositories{
		habits:      repository.NewSQLHabitRepository(db),
		completions: repository.NewSQLCompletionRepository(db),
		users:       repository.NewSQLUserRepository(db),
	}, nil
}

// newNotifier publishes reminders to AMQP when configured and falls back to
// logging them.
func newNotifier(cfg *config.Config, logger *applog.Logger) (workers.Notifier, func()) {
	if cfg.AMQPURL == "" {
		return messaging.NewLogNotifier(logger), func() {}
	}

	notifier, err := messaging.NewAMQPNotifier(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Warn("amqp unavailable, reminders will only be logged", applog.FieldError, err)
		return messaging.NewLogNotifier(logger), func() {}
	}
	return notifier, func() { _ = notifier.Close() }
}
