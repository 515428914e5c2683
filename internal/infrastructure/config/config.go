// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Outbound vendor calls
	VendorCallTimeout time.Duration
	AuthCallTimeout   time.Duration
	RetryMaxAttempts  int
	RetryBackoffBase  time.Duration

	// Rate limiting (per adapter instance)
	RateLimitMaxTokens  int
	RateLimitRefillRate float64
	RateLimitInterval   time.Duration

	// Circuit breaker
	BreakerThreshold int
	BreakerCooldown  time.Duration

	// Health polling
	HealthPollInterval time.Duration

	// Metrics
	MetricsNamespace string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		VendorCallTimeout: time.Duration(getEnvAsInt("VENDOR_CALL_TIMEOUT", 30)) * time.Second,
		AuthCallTimeout:   time.Duration(getEnvAsInt("AUTH_CALL_TIMEOUT", 15)) * time.Second,
		RetryMaxAttempts:  getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
		RetryBackoffBase:  time.Duration(getEnvAsInt("RETRY_BACKOFF_BASE_MS", 500)) * time.Millisecond,

		RateLimitMaxTokens:  getEnvAsInt("RATE_LIMIT_MAX_TOKENS", 10),
		RateLimitRefillRate: getEnvAsFloat("RATE_LIMIT_REFILL_RATE", 10),
		RateLimitInterval:   time.Duration(getEnvAsInt("RATE_LIMIT_INTERVAL_MS", 1000)) * time.Millisecond,

		BreakerThreshold: getEnvAsInt("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerCooldown:  time.Duration(getEnvAsInt("BREAKER_COOLDOWN_SEC", 30)) * time.Second,

		HealthPollInterval: time.Duration(getEnvAsInt("HEALTH_POLL_INTERVAL", 60)) * time.Second,

		MetricsNamespace: getEnv("METRICS_NAMESPACE", "disputeshield"),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
