package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/smartlab-id/smartlab-api/internal/config"
	"github.com/smartlab-id/smartlab-api/internal/handler"
	"github.com/smartlab-id/smartlab-api/internal/utils"
)

func TestHealthCheck(t *testing.T) {
	db := newHandlerDB(t)
	cfg := config.Config{AppName: "SmartLab API", AppEnv: "test"}

	app := fiber.New()
	app.Get("/api/health", handler.HealthCheck(cfg, db))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.Success)

	payload, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "ok", payload["status"])
	require.Equal(t, "SmartLab API", payload["service"])
	require.Equal(t, "up", payload["database"])
}

func TestHealthCheckWithoutDatabase(t *testing.T) {
	app := fiber.New()
	app.Get("/api/health", handler.HealthCheck(config.Config{AppName: "SmartLab API"}, nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
