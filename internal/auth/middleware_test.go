package auth_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubdesk/clubdesk/internal/auth"
	"github.com/clubdesk/clubdesk/internal/db/models"
	"github.com/clubdesk/clubdesk/internal/permission"
)

func newTestApp(lookup auth.RoleLookup, id *auth.Identity) *fiber.App {
	authz := auth.NewAuthorizer(lookup)
	app := fiber.New()

	app.Use(func(c fiber.Ctx) error {
		if id != nil {
			auth.SetIdentity(c, *id)
		}

		return c.Next()
	})

	app.Get("/bookings", auth.RequirePermission(authz, auth.SectionBookings, permission.Read), func(c fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Put("/bookings/:club", func(c fiber.Ctx) error {
		id, ok := auth.IdentityFrom(c)
		if !ok {
			return auth.Unauthorized(c)
		}

		club, err := strconv.ParseUint(c.Params("club"), 10, 64)
		if err != nil {
			return fiber.ErrBadRequest
		}

		d, err := authz.Decide(c.Context(), id, auth.SectionBookings, permission.Update, auth.ClubFacts(club))

		if handled, respErr := auth.RespondDecision(c, d, err); handled {
			return respErr
		}

		return c.SendString("updated")
	})

	return app
}

func decodeErrorBody(t *testing.T, resp *http.Response) auth.ErrorBody {
	t.Helper()

	var body auth.ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	return body
}

func TestRequirePermission(t *testing.T) {
	roles := stubRoles{roles: []models.Role{managerRole(), userRole()}}
	manager := &auth.Identity{UserID: 5, Roles: []string{"Manager"}, ClubID: ptr(7)}
	nobody := &auth.Identity{UserID: 9, Roles: []string{"Ghost"}}

	testCases := []struct {
		name       string
		lookup     auth.RoleLookup
		id         *auth.Identity
		wantStatus int
		wantReason auth.Reason
	}{
		{name: "no identity", lookup: roles, wantStatus: fiber.StatusUnauthorized},
		{name: "granted", lookup: roles, id: manager, wantStatus: fiber.StatusOK},
		{
			name:       "missing base permission",
			lookup:     roles,
			id:         nobody,
			wantStatus: fiber.StatusForbidden,
			wantReason: auth.ReasonNoBasePermission,
		},
		{
			name:       "store unavailable",
			lookup:     stubRoles{err: errors.New("connection reset")},
			id:         manager,
			wantStatus: fiber.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(tc.lookup, tc.id)

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/bookings", nil))
			require.NoError(t, err)

			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			if tc.wantStatus == fiber.StatusForbidden {
				body := decodeErrorBody(t, resp)
				assert.Equal(t, "forbidden", body.Error)
				assert.Equal(t, tc.wantReason, body.Reason)
			}
		})
	}
}

func TestRespondDecision(t *testing.T) {
	manager := &auth.Identity{UserID: 5, Roles: []string{"Manager"}, ClubID: ptr(7)}

	testCases := []struct {
		name       string
		lookup     auth.RoleLookup
		path       string
		wantStatus int
		wantReason auth.Reason
	}{
		{name: "own club", lookup: stubRoles{roles: []models.Role{managerRole()}}, path: "/bookings/7", wantStatus: fiber.StatusOK},
		{
			name:       "other club",
			lookup:     stubRoles{roles: []models.Role{managerRole()}},
			path:       "/bookings/9",
			wantStatus: fiber.StatusForbidden,
			wantReason: auth.ReasonOutOfScopeClub,
		},
		{
			name:       "store unavailable",
			lookup:     stubRoles{err: errors.New("timeout")},
			path:       "/bookings/7",
			wantStatus: fiber.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(tc.lookup, manager)

			resp, err := app.Test(httptest.NewRequest(fiber.MethodPut, tc.path, nil))
			require.NoError(t, err)

			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			if tc.wantStatus != fiber.StatusOK {
				body := decodeErrorBody(t, resp)
				assert.Equal(t, tc.wantReason, body.Reason)
			}
		})
	}
}
