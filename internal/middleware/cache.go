package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/example/shopweve/internal/cache"
)

// ResponseCache serves successful GET responses from Redis, keyed by the full
// request URL. Only 200 responses are stored. A nil client disables caching.
func ResponseCache(rdb *redis.Client, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rdb == nil || c.Method() != fiber.MethodGet {
			return c.Next()
		}

		ctx := c.Context()
		key := cache.ProductKey(c.OriginalURL())

		if payload, err := rdb.Get(ctx, key).Bytes(); err == nil {
			c.Set("X-Cache", "HIT")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(payload)
		}

		c.Set("X-Cache", "MISS")
		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() == fiber.StatusOK {
			body := append([]byte(nil), c.Response().Body()...)
			if err := rdb.Set(ctx, key, body, ttl).Err(); err != nil {
				log.Printf("[Cache] failed to store %s: %v", key, err)
			}
		}
		return nil
	}
}
