package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/smartlab-id/smartlab-api/internal/middleware"
)

func newCommonApp(allowOrigins string) *fiber.App {
	app := fiber.New()
	middleware.Register(app, middleware.Config{AllowOrigins: allowOrigins})
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func TestRegisterCORSHonorsConfiguredOrigin(t *testing.T) {
	app := newCommonApp("https://lab.smartlab.sch.id")

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://lab.smartlab.sch.id")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "https://lab.smartlab.sch.id", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRegisterCORSRejectsUnlistedOrigin(t *testing.T) {
	app := newCommonApp("https://lab.smartlab.sch.id")

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRegisterCORSDefaultsToWildcard(t *testing.T) {
	app := newCommonApp("")

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://anything.example.com")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
