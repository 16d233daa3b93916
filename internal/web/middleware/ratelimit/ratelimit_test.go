package ratelimit_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubdesk/clubdesk/internal/web/middleware/ratelimit"
)

func TestRateLimit(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	app := fiber.New()
	app.Use(ratelimit.New(ratelimit.Config{
		PerSecond: 1,
		Burst:     2,
		KeyFunc:   func(c fiber.Ctx) string { return c.Get("X-Client") },
		Now:       func() time.Time { return now },
	}))
	app.Get("/", func(c fiber.Ctx) error { return c.SendString("ok") })

	call := func(client string) int {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set("X-Client", client)

		resp, err := app.Test(req)
		require.NoError(t, err)

		defer resp.Body.Close()

		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, call("a"))
	assert.Equal(t, fiber.StatusOK, call("a"))
	assert.Equal(t, fiber.StatusTooManyRequests, call("a"))
	assert.Equal(t, fiber.StatusOK, call("b"), "buckets are per client")

	now = now.Add(time.Second)
	assert.Equal(t, fiber.StatusOK, call("a"), "bucket refills over time")
}
