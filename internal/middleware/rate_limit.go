package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateCounter is the part of the Redis client the limiter uses.
type RateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimit allows limit requests per client IP in each window. A nil
// counter or a non-positive limit disables it; Redis errors let the
// request through.
func RateLimit(counter RateCounter, prefix string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if counter == nil || limit <= 0 {
			return c.Next()
		}

		ctx := c.UserContext()
		key := "rate_limit:" + prefix + ":" + c.IP()

		count, err := counter.Incr(ctx, key).Result()
		if err != nil {
			logger.Warningf("rate limiter unavailable: %v", err)
			return c.Next()
		}

		// first hit in the window starts its clock
		if count == 1 {
			counter.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests"})
		}
		return c.Next()
	}
}
