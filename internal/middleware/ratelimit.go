package middleware

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware allows limit requests per window per client. Counters live in
// Redis so replicas share them; with rdb == nil a per-process token bucket is used.
// limit <= 0 disables limiting.
func RateLimitMiddleware(rdb *redis.Client, limit int, window time.Duration) fiber.Handler {
	if limit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if rdb == nil {
		return localRateLimit(limit, window)
	}
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("rl:%s:%s", c.Path(), clientKey(c))

		ctx := c.UserContext()
		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			return c.Next() // fail open
		}

		if count == 1 {
			rdb.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			return tooMany(c)
		}

		return c.Next()
	}
}

func localRateLimit(limit int, window time.Duration) fiber.Handler {
	var mu sync.Mutex
	buckets := make(map[string]*rate.Limiter)
	every := rate.Every(window / time.Duration(limit))

	return func(c *fiber.Ctx) error {
		key := clientKey(c)
		mu.Lock()
		l, ok := buckets[key]
		if !ok {
			l = rate.NewLimiter(every, limit)
			buckets[key] = l
		}
		mu.Unlock()

		if !l.Allow() {
			return tooMany(c)
		}
		return c.Next()
	}
}

// clientKey is the authenticated user when known, otherwise the IP.
func clientKey(c *fiber.Ctx) string {
	if id := GetUserID(c); id != "" {
		return "u:" + id
	}
	return c.IP()
}

func tooMany(c *fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error": "rate limit exceeded",
	})
}
