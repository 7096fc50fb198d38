package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"wamigrate/internal/config"
)

// authMiddleware enforces the static API key when auth is enabled. The key
// is accepted as "Authorization: Bearer <key>" or the X-Api-Key header.
func authMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !cfg.Auth.Enabled {
			return c.Next()
		}

		key := c.Get("X-Api-Key")
		if key == "" {
			auth := c.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				key = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if key == "" || key != cfg.Auth.APIKey {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Success: false,
				Code:    "unauthorized",
				Error:   "missing or invalid API key",
			})
		}

		c.Locals("api_key", key)
		return c.Next()
	}
}

// rateLimitMiddleware applies a fixed-window per-minute limit keyed by API
// key, falling back to client IP for unauthenticated requests. Redis
// outages fail open.
func rateLimitMiddleware(cfg *config.Config, rdb *redis.Client) fiber.Handler {
	limit := cfg.RateLimit.DefaultPerMinute
	if limit <= 0 {
		limit = 60
	}

	return func(c *fiber.Ctx) error {
		ident, _ := c.Locals("api_key").(string)
		if ident == "" {
			ident = c.IP()
		}

		window := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%s:%d", ident, window)

		n, err := rdb.Incr(c.Context(), key).Result()
		if err != nil {
			return c.Next()
		}
		if n == 1 {
			rdb.Expire(c.Context(), key, time.Minute)
		}

		if n > int64(limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
				Success: false,
				Code:    "rate_limited",
				Error:   fmt.Sprintf("rate limit of %d requests per minute exceeded", limit),
			})
		}

		return c.Next()
	}
}
