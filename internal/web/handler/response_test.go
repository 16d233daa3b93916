package handler_test

import (
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubdesk/clubdesk/internal/auth"
	"github.com/clubdesk/clubdesk/internal/web/handler"
)

func TestParseIDs(t *testing.T) {
	app := fiber.New()
	app.Get("/wide/:id", func(c fiber.Ctx) error {
		id, ok, err := handler.ParseID(c)
		if !ok {
			return err
		}

		return c.SendString(strconv.FormatUint(id, 10))
	})
	app.Get("/narrow/:id", func(c fiber.Ctx) error {
		id, ok, err := handler.ParseUintID(c)
		if !ok {
			return err
		}

		return c.SendString(strconv.FormatUint(uint64(id), 10))
	})

	testCases := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "wide valid", path: "/wide/42", wantStatus: fiber.StatusOK},
		{name: "wide zero", path: "/wide/0", wantStatus: fiber.StatusBadRequest},
		{name: "wide negative", path: "/wide/-1", wantStatus: fiber.StatusBadRequest},
		{name: "wide overflow", path: "/wide/18446744073709551616", wantStatus: fiber.StatusBadRequest},
		{name: "narrow valid", path: "/narrow/42", wantStatus: fiber.StatusOK},
		{name: "narrow not a number", path: "/narrow/abc", wantStatus: fiber.StatusBadRequest},
		{name: "narrow overflow", path: "/narrow/18446744073709551616", wantStatus: fiber.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil))
			require.NoError(t, err)

			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}

func TestParseUintIDRejectsIDsBeyondPlatformUint(t *testing.T) {
	if strconv.IntSize == 64 {
		t.Skip("every uint64 that parses fits a 64-bit uint")
	}

	app := fiber.New()
	app.Get("/narrow/:id", func(c fiber.Ctx) error {
		_, ok, err := handler.ParseUintID(c)
		if !ok {
			return err
		}

		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/narrow/4294967296", nil))
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCurrentIdentity(t *testing.T) {
	app := fiber.New()
	app.Get("/anonymous", func(c fiber.Ctx) error {
		_, ok, err := handler.CurrentIdentity(c)
		assert.False(t, ok)

		return err
	})
	app.Get("/known", func(c fiber.Ctx) error {
		auth.SetIdentity(c, auth.Identity{UserID: 7})

		id, ok, err := handler.CurrentIdentity(c)
		if !ok {
			return err
		}

		return c.SendString(strconv.FormatUint(id.UserID, 10))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/anonymous", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/known", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
