// Package ratelimit provides a per client IP token bucket middleware for fiber.
package ratelimit

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Config of the limiter.
type Config struct {
	// PerSecond is the refill rate of every bucket.
	PerSecond float64
	// Burst is the bucket size.
	Burst int
	// TTL drops buckets idle for longer. Default: 5 minutes.
	TTL time.Duration
	// KeyFunc selects the bucket. Default: c.IP().
	KeyFunc func(c fiber.Ctx) string
	// Now is the time source. Default: time.Now.
	Now func() time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// New creates the middleware. Requests over the limit get 429.
func New(cfg Config) fiber.Handler {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}

	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c fiber.Ctx) string { return c.IP() }
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	if cfg.Burst < 1 {
		cfg.Burst = 1
	}

	var (
		mu        sync.Mutex
		buckets   = make(map[string]*bucket)
		lastSweep = cfg.Now()
	)

	allow := func(key string) bool {
		now := cfg.Now()

		mu.Lock()
		defer mu.Unlock()

		if now.Sub(lastSweep) > cfg.TTL {
			for k, b := range buckets {
				if now.Sub(b.seen) > cfg.TTL {
					delete(buckets, k)
				}
			}

			lastSweep = now
		}

		b, ok := buckets[key]
		if !ok {
			b = &bucket{lim: rate.NewLimiter(rate.Limit(cfg.PerSecond), cfg.Burst)}
			buckets[key] = b
		}

		b.seen = now

		return b.lim.AllowN(now, 1)
	}

	return func(c fiber.Ctx) error {
		key := cfg.KeyFunc(c)
		if key == "" {
			key = "unknown"
		}

		if !allow(key) {
			log.Warn().Str("key", key).Str("path", c.Path()).Msg("rate limit exceeded")

			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
		}

		return c.Next()
	}
}
