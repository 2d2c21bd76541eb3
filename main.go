package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/toshankanwar/bakery-delivery-backend/internal/config"
	"github.com/toshankanwar/bakery-delivery-backend/internal/handlers"
	"github.com/toshankanwar/bakery-delivery-backend/internal/jobs"
	"github.com/toshankanwar/bakery-delivery-backend/internal/logger"
	"github.com/toshankanwar/bakery-delivery-backend/internal/routes"
	"github.com/toshankanwar/bakery-delivery-backend/internal/services"
	"github.com/toshankanwar/bakery-delivery-backend/internal/storage"
)

const serviceName = "Toshan Bakery Delivery OTP Server"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger depends on config, so fall back to a production logger here
		zap.Must(zap.NewProduction()).Fatal("invalid configuration", zap.Error(err))
	}

	log := logger.New(cfg.IsProduction())
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open storage", zap.Error(err))
	}

	var dispatcher services.Dispatcher
	if cfg.BrevoConfigured() {
		dispatcher = services.NewBrevoClient(
			cfg.BrevoAPIKey,
			cfg.BrevoAPIURL,
			services.Sender{Email: cfg.EmailFrom, Name: cfg.EmailFromName},
			cfg.EmailTimeout,
			log,
		)
	} else {
		log.Warn("⚠️  BREVO_API_KEY not set - emails are written to the log instead of being sent")
		dispatcher = services.NewLogDispatcher(log)
	}

	otpService := services.NewOTPService(
		backend.OTPs,
		backend.Orders,
		dispatcher,
		log,
		services.WithDebugCodes(!cfg.IsProduction()),
	)

	app := routes.NewApp(serviceName, true)
	routes.SetupRoutes(
		app,
		handlers.NewHealthHandler(serviceName, cfg.BrevoConfigured(), backend.Driver),
		handlers.NewOTPHandler(otpService, cfg.RequestTimeout, log),
	)

	var heartbeat *jobs.Heartbeat
	if cfg.IsProduction() {
		if selfURL := cfg.SelfURL(); selfURL != "" {
			heartbeat = jobs.NewHeartbeat(selfURL, log)
			app.Hooks().OnListen(func(fiber.ListenData) error {
				heartbeat.Start(ctx)
				return nil
			})
		} else {
			log.Warn("⚠️  No SERVER_URL or RENDER_EXTERNAL_URL set - self-heartbeat disabled")
		}
	}

	go func() {
		<-ctx.Done()
		log.Info("🛑 Gracefully shutting down...")
		if heartbeat != nil {
			heartbeat.Stop()
		}
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("server shutdown", zap.Error(err))
		}
	}()

	log.Info("========================================")
	log.Info("🚀 "+serviceName+" starting", zap.String("port", cfg.Port))
	log.Info("📧 Sender", zap.String("email", cfg.EmailFrom), zap.String("name", cfg.EmailFromName))
	log.Info("🔑 Brevo", zap.Bool("configured", cfg.BrevoConfigured()))
	log.Info("📊 Storage", zap.String("orders", backend.Driver), zap.String("otps", backend.OTPDriver))
	log.Info("🌍 Environment", zap.String("env", cfg.Env))
	log.Info("========================================")

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("server stopped", zap.Error(err))
	}

	if err := backend.Close(); err != nil {
		log.Warn("closing storage", zap.Error(err))
	}
	log.Info("👋 Server exited")
}
