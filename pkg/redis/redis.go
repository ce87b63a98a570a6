package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"clerkrota/backend/config"
)

// Client wraps the Redis connection.
// Used for the student-progress cache and request rate limiting.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects to Redis and pings it once.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Progress cache ──

const progressPrefix = "progress:student:"

// GetProgress returns the cached progress JSON for a student, or "" on miss.
func (c *Client) GetProgress(ctx context.Context, studentID string) (string, error) {
	val, err := c.rdb.Get(ctx, progressPrefix+studentID).Result()
	if err == goredis.Nil {
		return "", nil
	}
	return val, err
}

// SetProgress caches the progress JSON for a student.
func (c *Client) SetProgress(ctx context.Context, studentID, payload string, ttl time.Duration) error {
	return c.rdb.Set(ctx, progressPrefix+studentID, payload, ttl).Err()
}

// InvalidateProgress drops the cached progress for a student.
// Called on every assignment write touching that student.
func (c *Client) InvalidateProgress(ctx context.Context, studentID string) error {
	return c.rdb.Del(ctx, progressPrefix+studentID).Err()
}

// ── Rate limiting ──

// CheckRateLimit implements a fixed-window counter. Returns false when the
// window already holds `limit` requests.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
