// Package config loads the service configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	DriverFirestore = "firestore"
	DriverPostgres  = "postgres"
	DriverMemory    = "memory"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// Port the HTTP server listens on.
	Port string `mapstructure:"PORT"`
	// Env is "production" or "development", read from APP_ENV then NODE_ENV; the
	// self-heartbeat only runs in production.
	Env string `mapstructure:"APP_ENV"`

	BrevoAPIKey   string `mapstructure:"BREVO_API_KEY"`
	BrevoAPIURL   string `mapstructure:"BREVO_API_URL"`
	EmailFrom     string `mapstructure:"EMAIL_FROM"`
	EmailFromName string `mapstructure:"EMAIL_FROM_NAME"`

	// ServerURL is the externally reachable base URL, used as the heartbeat target.
	ServerURL string `mapstructure:"SERVER_URL"`
	// RenderExternalURL takes precedence over ServerURL when the host sets it.
	RenderExternalURL string `mapstructure:"RENDER_EXTERNAL_URL"`

	// StorageDriver selects where orders and OTP records live: firestore, postgres or memory.
	StorageDriver     string `mapstructure:"STORAGE_DRIVER"`
	FirebaseProjectID string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleCredentials string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	// RedisURL, when set, moves OTP records into Redis while orders stay in StorageDriver.
	RedisURL string `mapstructure:"REDIS_URL"`

	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	EmailTimeout   time.Duration `mapstructure:"EMAIL_TIMEOUT"`

	// OTPServiceURL is the base URL the admin client calls for send-otp / verify-otp.
	OTPServiceURL string `mapstructure:"OTP_SERVICE_URL"`
}

var keys = []string{
	"PORT", "APP_ENV",
	"BREVO_API_KEY", "BREVO_API_URL", "EMAIL_FROM", "EMAIL_FROM_NAME",
	"SERVER_URL", "RENDER_EXTERNAL_URL",
	"STORAGE_DRIVER", "FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS", "DATABASE_URL", "REDIS_URL",
	"REQUEST_TIMEOUT", "EMAIL_TIMEOUT", "OTP_SERVICE_URL",
}

// Load reads .env files (if present) and builds a validated Config from the environment.
// Env vars already set win over values from the files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env", "environments/.env.development"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err == nil {
			break
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	// deployments configured for the original Node server only set NODE_ENV
	_ = v.BindEnv("APP_ENV", "APP_ENV", "NODE_ENV")

	v.SetDefault("PORT", "5000")
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("BREVO_API_URL", "https://api.brevo.com/v3/smtp/email")
	v.SetDefault("EMAIL_FROM_NAME", "Toshan Bakery")
	v.SetDefault("STORAGE_DRIVER", DriverFirestore)
	v.SetDefault("REQUEST_TIMEOUT", "20s")
	v.SetDefault("EMAIL_TIMEOUT", "15s")
	v.SetDefault("OTP_SERVICE_URL", "http://localhost:5000")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env != EnvProduction && c.Env != EnvDevelopment {
		return fmt.Errorf("config: APP_ENV must be %q or %q, got %q", EnvProduction, EnvDevelopment, c.Env)
	}
	if c.Port == "" {
		return errors.New("config: PORT must be set")
	}

	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch c.StorageDriver {
	case DriverFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("config: FIREBASE_PROJECT_ID must be set when STORAGE_DRIVER=firestore")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL must be set when STORAGE_DRIVER=postgres")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.IsProduction() && c.BrevoAPIKey == "" {
		return errors.New("config: BREVO_API_KEY must be set when APP_ENV=production")
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 20 * time.Second
	}
	if c.EmailTimeout <= 0 {
		c.EmailTimeout = 15 * time.Second
	}
	return nil
}

// IsProduction reports whether APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// BrevoConfigured reports whether an email-provider API key is present.
func (c *Config) BrevoConfigured() bool {
	return c.BrevoAPIKey != ""
}

// SelfURL returns the heartbeat target base URL without a trailing slash, or "" when none is configured.
func (c *Config) SelfURL() string {
	u := c.RenderExternalURL
	if u == "" {
		u = c.ServerURL
	}
	return strings.TrimRight(u, "/")
}
