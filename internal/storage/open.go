package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/toshankanwar/bakery-delivery-backend/database"
	"github.com/toshankanwar/bakery-delivery-backend/internal/config"
)

// Backend is the set of stores selected by configuration.
type Backend struct {
	OTPs   OTPStore
	Orders OrderStore
	// Driver names the order store, e.g. "firestore"; OTPDriver differs when Redis holds the OTPs.
	Driver    string
	OTPDriver string

	closers []func() error
}

// Close releases every client the backend opened.
func (b *Backend) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open builds the stores named by cfg.StorageDriver and, when REDIS_URL is set,
// moves OTP records to Redis.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Backend, error) {
	b := &Backend{Driver: cfg.StorageDriver, OTPDriver: cfg.StorageDriver}

	switch cfg.StorageDriver {
	case config.DriverMemory:
		log.Warn("⚠️  Using in-memory storage (not for production!)")
		s := NewMemoryStore()
		b.OTPs, b.Orders = s, s

	case config.DriverPostgres:
		log.Info("📦 Connecting to PostgreSQL database...")
		db, err := database.Connect(cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		s := NewDatabaseStore(db)
		if err := s.Migrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("✅ Database migrations completed")
		b.OTPs, b.Orders = s, s
		if sqlDB, err := db.DB(); err == nil {
			b.closers = append(b.closers, sqlDB.Close)
		}

	case config.DriverFirestore:
		log.Info("📦 Connecting to Firestore", zap.String("project", cfg.FirebaseProjectID))
		s, err := NewFirestoreStore(ctx, cfg.FirebaseProjectID, cfg.GoogleCredentials)
		if err != nil {
			return nil, err
		}
		b.OTPs, b.Orders = s, s
		b.closers = append(b.closers, s.Close)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	if cfg.RedisURL != "" {
		client, err := NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.OTPs = NewRedisOTPStore(client)
		b.OTPDriver = "redis"
		b.closers = append(b.closers, client.Close)
		log.Info("✅ OTP records stored in Redis")
	}

	return b, nil
}
