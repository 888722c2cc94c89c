package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"padron-agremiados/pkg/response"
)

// RateLimiter is satisfied by *redis.Client.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit sliding-window limit per client IP and route.
// A nil limiter or a limiter error lets the request through.
func RateLimit(limiter RateLimiter, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s:%s", c.ClientIP(), c.Request.Method, c.FullPath())
		allowed, err := limiter.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			response.TooManyRequests(c)
			return
		}

		c.Next()
	}
}
