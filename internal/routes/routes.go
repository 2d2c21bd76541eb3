package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/toshankanwar/bakery-delivery-backend/internal/handlers"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, health *handlers.HealthHandler, otp *handlers.OTPHandler) {
	app.Get("/", health.Info)
	app.Get("/ping", health.Ping)
	app.Get("/health", health.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Post("/send-otp", otp.SendOTP)
	app.Post("/verify-otp", otp.VerifyOTP)
}
