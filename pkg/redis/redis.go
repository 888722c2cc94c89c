package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"padron-agremiados/config"
)

// Client wraps the Redis connection used for request rate limiting.
type Client struct {
	rdb    goredis.Cmdable
	closer func() error
	logger *zap.Logger
	now    func() time.Time
}

// NewClient connects and pings Redis.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, closer: rdb.Close, logger: logger, now: time.Now}, nil
}

// NewFromCmdable wraps an existing go-redis handle. The caller owns its lifetime.
func NewFromCmdable(rdb goredis.Cmdable, logger *zap.Logger) *Client {
	return &Client{rdb: rdb, closer: func() error { return nil }, logger: logger, now: time.Now}
}

// ── Rate limiting ──

const rateLimitPrefix = "padron:rate_limit:"

// CheckRateLimit records one hit for key and reports whether the hit fits in
// a sliding window of the given length holding at most limit hits. Rejected
// hits are not recorded.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := c.now()
	fullKey := rateLimitPrefix + key
	windowStart := now.Add(-window).UnixMicro()

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, fullKey, "-inf", strconv.FormatInt(windowStart, 10))
	count := pipe.ZCard(ctx, fullKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit window: %w", err)
	}

	if count.Val() >= int64(limit) {
		return false, nil
	}

	pipe = c.rdb.TxPipeline()
	pipe.ZAdd(ctx, fullKey, goredis.Z{
		Score:  float64(now.UnixMicro()),
		Member: uuid.NewString(),
	})
	pipe.Expire(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit record: %w", err)
	}

	return true, nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.closer()
}
