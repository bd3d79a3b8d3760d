package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/config"
)

func TestHealthCheck(t *testing.T) {
	app := fiber.New()
	app.Get("/health", HealthCheck(config.Config{AppName: "gradebook-api", AppEnv: "test"}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	var envelope struct {
		Success bool           `json:"success"`
		Data    HealthResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	require.Equal(t, "ok", envelope.Data.Status)
	require.Equal(t, "gradebook-api", envelope.Data.Service)
	require.Equal(t, "test", envelope.Data.Environment)
	require.False(t, envelope.Data.Timestamp.IsZero())
}
