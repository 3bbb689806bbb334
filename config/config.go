// Package config loads service configuration from the environment, with an
// optional .env overlay for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the service consumes.
type Config struct {
	Service struct {
		Name    string
		Version string
		Env     string
		Port    string
	}
	Logging struct {
		Level string
	}
	Database struct {
		URL     string
		SSLMode string
	}
	Auth struct {
		JWTSecret   string
		TokenExpiry time.Duration
	}
	Task struct {
		// AtomicToggle selects the race-free single-statement completion
		// toggle. When false the service keeps the read-then-write
		// behavior, which can lose one of two concurrent toggles.
		AtomicToggle bool
	}
	Tracing struct {
		Enabled    bool
		Endpoint   string
		SampleRate float64
	}
	Profiling struct {
		Enabled  bool
		Endpoint string
	}
	Shutdown struct {
		Timeout             time.Duration
		ReadinessDrainDelay time.Duration
	}
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Service.Name = getEnv("SERVICE_NAME", "task-service")
	cfg.Service.Version = getEnv("SERVICE_VERSION", "dev")
	cfg.Service.Env = getEnv("SERVICE_ENV", "development")
	cfg.Service.Port = getEnv("PORT", "8080")

	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")

	cfg.Database.URL = getEnv("DATABASE_URL", "")
	cfg.Database.SSLMode = getEnv("DATABASE_SSLMODE", "require")

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.Auth.TokenExpiry = getEnvDuration("JWT_EXPIRY", 24*time.Hour)

	cfg.Task.AtomicToggle = getEnvBool("TASK_ATOMIC_TOGGLE", true)

	cfg.Tracing.Enabled = getEnvBool("TRACING_ENABLED", false)
	cfg.Tracing.Endpoint = getEnv("TRACING_ENDPOINT", "localhost:4318")
	cfg.Tracing.SampleRate = getEnvFloat("TRACING_SAMPLE_RATE", 1.0)

	cfg.Profiling.Enabled = getEnvBool("PROFILING_ENABLED", false)
	cfg.Profiling.Endpoint = getEnv("PROFILING_ENDPOINT", "http://localhost:4040")

	cfg.Shutdown.Timeout = getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	cfg.Shutdown.ReadinessDrainDelay = getEnvDuration("READINESS_DRAIN_DELAY", 0)

	return cfg
}

// Validate reports the settings without which the service cannot run.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Auth.TokenExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.Auth.TokenExpiry)
	}
	return nil
}

// GetShutdownTimeoutDuration returns the HTTP shutdown grace period.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	return c.Shutdown.Timeout
}

// GetReadinessDrainDelayDuration returns how long to fail readiness before
// shutting the HTTP server down.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	return c.Shutdown.ReadinessDrainDelay
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
