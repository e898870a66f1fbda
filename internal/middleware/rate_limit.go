package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/anunciosmz/marketplace-backend/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
)

// limiterStore is the slice of redis the rate limiter needs, narrowed to an
// interface so tests can run against an in-memory fake.
type limiterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type redisLimiterStore struct {
	rdb *redis.Client
}

func (s redisLimiterStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.rdb.Incr(ctx, key).Result()
}

func (s redisLimiterStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.rdb.Expire(ctx, key, ttl).Err()
}

func (s redisLimiterStore) Del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// SubmitRateLimitMiddleware caps boost claim submissions per client IP over a
// fixed window. Fabricated reference codes cost an attacker nothing, so the
// claim endpoint is the one place brute force is worth slowing down.
func SubmitRateLimitMiddleware(rdb *redis.Client, cfg config.RedisConfig) gin.HandlerFunc {
	return submitRateLimit(redisLimiterStore{rdb: rdb}, cfg)
}

func submitRateLimit(store limiterStore, cfg config.RedisConfig) gin.HandlerFunc {
	window := time.Duration(cfg.SubmitWindowSeconds) * time.Second

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("boost:submit:%s", c.ClientIP())

		count, err := store.Incr(ctx, key)
		if err != nil {
			// Redis being down must not take the payment flow with it.
			slog.Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := store.Expire(ctx, key, window); err != nil {
				// A counter without an expiry would limit this client until
				// redis is flushed; drop the key and let the request through.
				slog.Warn("rate limiter expire failed", "error", err)
				if err := store.Del(ctx, key); err != nil {
					slog.Warn("rate limiter key cleanup failed", "error", err)
				}
				c.Next()
				return
			}
		}

		if count > int64(cfg.SubmitLimit) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many payment submissions, try again later"})
			c.Abort()
			return
		}

		c.Next()
	}
}
