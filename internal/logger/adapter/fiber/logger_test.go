package fiber_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/clubdesk/clubdesk/internal/logger/adapter/fiber"
	"github.com/clubdesk/clubdesk/internal/logger"
)

type accessLine struct {
	IP     string `json:"IP"`
	Status int    `json:"status"`
	URI    string `json:"URI"`
	Method string `json:"method"`
	Host   string `json:"host"`
	UserID uint64 `json:"user_id"`
	Error  string `json:"error"`
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		targetPath string
		cfg        logger.Log
		want       *accessLine
	}{
		{
			name:       "root",
			targetPath: "/",
			want:       &accessLine{Status: http.StatusOK, URI: "/", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "query string is kept",
			targetPath: "/?test=123",
			want:       &accessLine{Status: http.StatusOK, URI: "/?test=123", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "unknown route",
			targetPath: "/no_path",
			want:       &accessLine{Status: http.StatusNotFound, URI: "/no_path", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "handler error is logged with its status",
			targetPath: "/fail",
			want: &accessLine{
				Status: http.StatusTeapot, URI: "/fail", Method: fiber.MethodGet, Host: "example.com", Error: "teapot",
			},
		},
		{
			name:       "authenticated caller",
			targetPath: "/me",
			want: &accessLine{
				Status: http.StatusOK, URI: "/me", Method: fiber.MethodGet, Host: "example.com", UserID: 42,
			},
		},
		{
			name:       "checkalive is not logged",
			targetPath: "/checkalive",
			cfg:        logger.Log{DisableCheckAlive: true},
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			app := fiber.New()
			app.Use(adapter.New(adapter.Config{Config: tt.cfg, CheckAliveURI: "/checkalive", Output: &out}))
			app.Get("/", func(c fiber.Ctx) error { return c.SendString("hello test") })
			app.Get("/checkalive", func(c fiber.Ctx) error { return c.SendString("OK") })
			app.Get("/fail", func(_ fiber.Ctx) error { return fiber.NewError(http.StatusTeapot, "teapot") })
			app.Get("/me", func(c fiber.Ctx) error {
				c.Locals(adapter.UserIDLocal, uint64(42))
				return c.SendString("me")
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.targetPath, nil))
			require.NoError(t, err)

			defer func() { _ = resp.Body.Close() }()

			assert.NotEmpty(t, resp.Header.Get("X-Performance"))

			if tt.want == nil {
				assert.Empty(t, out.String())
				return
			}

			var got accessLine
			require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out.String())), &got))

			assert.Equal(t, tt.want.Status, resp.StatusCode)
			assert.Equal(t, tt.want.Status, got.Status)
			assert.Equal(t, tt.want.URI, got.URI)
			assert.Equal(t, tt.want.Method, got.Method)
			assert.Equal(t, tt.want.Host, got.Host)
			assert.Equal(t, tt.want.UserID, got.UserID)
			assert.Equal(t, tt.want.Error, got.Error)
			assert.NotEmpty(t, got.IP)
		})
	}
}
