package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// isoMillis matches the timestamp format the mobile client already parses.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// HealthHandler serves liveness and heartbeat endpoints
type HealthHandler struct {
	Service         string
	BrevoConfigured bool
	Storage         string
	now             func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service string, brevoConfigured bool, storage string) *HealthHandler {
	return &HealthHandler{
		Service:         service,
		BrevoConfigured: brevoConfigured,
		Storage:         storage,
		now:             time.Now,
	}
}

func (h *HealthHandler) timestamp() string {
	return h.now().UTC().Format(isoMillis)
}

// Info returns service info and whether the email provider is configured
func (h *HealthHandler) Info(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":          "ok",
		"service":         h.Service,
		"timestamp":       h.timestamp(),
		"brevoConfigured": h.BrevoConfigured,
	})
}

// Ping is the self-heartbeat target
func (h *HealthHandler) Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "pong",
		"timestamp": h.timestamp(),
	})
}

// Check returns the health status used by hosting platform probes
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": h.Service,
		"storage": h.Storage,
	})
}
