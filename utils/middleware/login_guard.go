package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ukotvy/website/utils/cache"
	"github.com/ukotvy/website/utils/response"
)

// LoginGuard locks out client addresses that keep failing the admin
// login, backed by redis. The guard is optional: with no redis configured
// it is simply not attached.
type LoginGuard struct {
	redisCache *cache.RedisCache
}

// NewLoginGuard creates a login guard on top of the given cache.
func NewLoginGuard(redisCache *cache.RedisCache) *LoginGuard {
	return &LoginGuard{redisCache: redisCache}
}

// CheckLocked rejects requests from addresses currently locked out.
// Redis being unreachable never blocks a legitimate admin; the request is
// let through.
func (g *LoginGuard) CheckLocked() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		lockKey := fmt.Sprintf("admin_login:lock:%s", ip)

		locked, err := g.redisCache.Exists(c.Context(), lockKey)
		if err != nil {
			return c.Next()
		}
		if locked {
			ttl, _ := g.redisCache.TTL(c.Context(), lockKey)
			retryAfter := int(ttl.Seconds())
			if retryAfter < 0 {
				retryAfter = 60
			}
			c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return response.TooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter))
		}
		return c.Next()
	}
}

// RecordFailure counts a failed login and locks the address out for 15
// minutes after the fifth failure inside a 15 minute window.
func (g *LoginGuard) RecordFailure(c *fiber.Ctx, ip string) {
	ctx := c.Context()
	attemptKey := fmt.Sprintf("admin_login:attempts:%s", ip)

	attempts, err := g.redisCache.Increment(ctx, attemptKey)
	if err != nil {
		return
	}
	if attempts == 1 {
		g.redisCache.Expire(ctx, attemptKey, 15*time.Minute)
	}
	if attempts >= 5 {
		lockKey := fmt.Sprintf("admin_login:lock:%s", ip)
		g.redisCache.Set(ctx, lockKey, "locked", 15*time.Minute)
	}
}

// RecordSuccess clears the failure counters for an address.
func (g *LoginGuard) RecordSuccess(c *fiber.Ctx, ip string) {
	ctx := c.Context()
	g.redisCache.Delete(ctx,
		fmt.Sprintf("admin_login:attempts:%s", ip),
		fmt.Sprintf("admin_login:lock:%s", ip),
	)
}
