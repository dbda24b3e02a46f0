// Package config builds the immutable runtime configuration from the
// environment. It is constructed once in cmd/server and injected into the
// components that need it; nothing else reads os.Getenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service.
type Config struct {
	// Env is "development" or "production". It controls cookie security,
	// error detail exposure and the mail transport.
	Env  string
	Port string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	// RunMigrations enables GORM AutoMigrate on startup.
	RunMigrations bool

	RedisAddr     string
	RedisPassword string

	JWTSecret string
	// JWTExpiresDays is the lifetime of session tokens and the session
	// cookie, in days.
	JWTExpiresDays int

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	// AppBaseURL is the externally visible origin used to build
	// password-reset links.
	AppBaseURL string
	UploadDir  string
}

// Load reads .env (if present) and the process environment into a Config.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBUser:        getEnv("DB_USER", "root"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        getEnv("DB_HOST", "127.0.0.1"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBName:        getEnv("DB_NAME", "learnhub"),
		RunMigrations: os.Getenv("RUN_MIGRATIONS") == "true",

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnv("SMTP_FROM", "LearnHub <no-reply@learnhub.local>"),

		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:8080"),
		UploadDir:  getEnv("UPLOAD_DIR", "uploads"),
	}

	var err error
	if cfg.JWTExpiresDays, err = getEnvInt("JWT_EXPIRES_DAYS", 7); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = getEnvInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}

	if cfg.IsProduction() && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SessionTTL returns the session token lifetime as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
