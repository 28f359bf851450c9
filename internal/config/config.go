package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	// HTTP Server
	Port string

	// Storage
	DataBackend  string
	DBDriver     string
	DBUser       string
	DBPassword   string
	DBHost       string
	DBPort       string
	DBName       string
	SQLiteDBPath string

	// Redis (cache + rate limiting)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RateLimit     int
	RateWindow    time.Duration

	// Auth
	JWTSecret    string
	JWTIssuer    string
	TokenTTL     time.Duration
	AuthRequired bool

	// AMQP reminders
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	Timezone string
	LogLevel string
}

// Load reads the server configuration from the environment. A .env file in
// the working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "5000"),

		DataBackend:  getEnv("DATA_BACKEND", BackendMemory),
		DBDriver:     getEnv("DB_DRIVER", "pgx"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBName:       getEnv("DB_NAME", "habits"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/habits.db"),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RateLimit:     getEnvInt("RATE_LIMIT", 100),
		RateWindow:    getEnvDuration("RATE_WINDOW", time.Minute),

		JWTSecret:    getEnv("JWT_SECRET", "change-me"),
		JWTIssuer:    getEnv("JWT_ISSUER", "kanso-habits"),
		TokenTTL:     getEnvDuration("TOKEN_TTL", 72*time.Hour),
		AuthRequired: getEnvBool("AUTH_REQUIRED", false),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "habits"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "habit_reminders"),

		Timezone: getEnv("TIMEZONE", "UTC"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		url.PathEscape(c.DBUser), url.PathEscape(c.DBPassword), c.DBHost, c.DBPort, c.DBName)
}

func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate validates the configuration and returns an error listing every problem found.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DBDriver != "pgx" && c.DBDriver != "postgres" {
			errors = append(errors, fmt.Sprintf("invalid database driver '%s': must be 'pgx' or 'postgres'", c.DBDriver))
		}
		if c.DBName == "" {
			errors = append(errors, "DB_NAME is required when using the postgres backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v",
			c.DataBackend, []string{BackendMemory, BackendPostgres, BackendSQLite}))
	}

	if c.RateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimit))
	}
	if c.RateWindow < time.Second {
		errors = append(errors, fmt.Sprintf("invalid rate window %v: must be at least 1 second", c.RateWindow))
	}

	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET cannot be empty")
	}
	if c.TokenTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid token ttl %v: must be positive", c.TokenTTL))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
