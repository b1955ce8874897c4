package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	redisClient *redis.Client
	log         *slog.Logger
}

func NewRateLimiter(client *redis.Client, log *slog.Logger) *RateLimiter {
	return &RateLimiter{redisClient: client, log: log}
}

// Limit allows limit requests per client IP within window. When redis is
// unreachable requests pass through.
func (rl *RateLimiter) Limit(scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", scope, c.ClientIP())

		count, err := rl.redisClient.Incr(c, key).Result()
		if err != nil {
			rl.log.Warn("rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
			return
		}

		// first hit opens the window
		if count == 1 {
			rl.redisClient.Expire(c, key, window)
		}

		if count > int64(limit) {
			ttl, _ := rl.redisClient.TTL(c, key).Result()
			c.Header("Retry-After", fmt.Sprintf("%.0f", ttl.Seconds()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
				"code":  "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
