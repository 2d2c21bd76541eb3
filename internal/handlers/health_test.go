package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler("Toshan Bakery Delivery OTP Server", true, "memory")
	h.now = func() time.Time { return time.Date(2026, 10, 14, 4, 30, 0, 0, time.FixedZone("IST", 5*3600+1800)) }

	app := fiber.New()
	app.Get("/", h.Info)
	app.Get("/ping", h.Ping)

	get := func(path string) map[string]interface{} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	assert.Equal(t, map[string]interface{}{
		"status":          "ok",
		"service":         "Toshan Bakery Delivery OTP Server",
		"timestamp":       "2026-10-13T23:00:00.000Z",
		"brevoConfigured": true,
	}, get("/"))

	assert.Equal(t, map[string]interface{}{
		"success":   true,
		"message":   "pong",
		"timestamp": "2026-10-13T23:00:00.000Z",
	}, get("/ping"))
}
