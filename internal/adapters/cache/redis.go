package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrMiss    = errors.New("cache miss")
	ErrCorrupt = errors.New("cache entry corrupted")
)

const pingTimeout = 5 * time.Second

type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings. The client is closed again when the
// ping fails.
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  pingTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return rdb, nil
}

// HabitListKey holds one user's habit list.
func HabitListKey(userID int64) string {
	return fmt.Sprintf("habits:user:%d", userID)
}

// GetJSON reads and decodes key. A missing key is ErrMiss; an undecodable
// one is removed and reported as ErrCorrupt.
func GetJSON[T any](ctx context.Context, rdb redis.Cmdable, key string) (T, error) {
	var v T

	raw, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, ErrMiss
	}
	if err != nil {
		return v, fmt.Errorf("get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		rdb.Del(ctx, key)
		return v, fmt.Errorf("%w: %s: %w", ErrCorrupt, key, err)
	}
	return v, nil
}

func SetJSON(ctx context.Context, rdb redis.Cmdable, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
