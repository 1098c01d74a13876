package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resumeATS/internal/api/middleware"
)

type redisRateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

func incrWithTTL(ctx context.Context, client redisRateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}

// UploadRateLimit 按客户端 IP 限制每分钟上传次数。
// Redis 不可用时放行，只记录日志。
func UploadRateLimit(client redisRateCounter, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || perMinute <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("upload_rate:%s", c.ClientIP())
		count, err := incrWithTTL(c.Request.Context(), client, key, time.Minute)
		if err != nil {
			middleware.LoggerFromContext(c).Warn("upload rate limit check failed", slog.Any("error", err))
			c.Next()
			return
		}
		if count > int64(perMinute) {
			TooManyRequests(c, "Too many uploads. Please try again later.")
			return
		}
		c.Next()
	}
}
