package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr         string
	BackendBaseURL   string
	PaymentBaseURL   string
	PaymentPublicKey string
	RedisAddr        string
	BillingCountry   string
	TaxRatePercent   int
	PollInterval     time.Duration
	PollMaxAttempts  int
	SessionTTL       time.Duration
	AllowedOrigins   []string
	ShutdownTimeout  time.Duration
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		BackendBaseURL:   envOrDefault("BACKEND_BASE_URL", "http://localhost:4000/api"),
		PaymentBaseURL:   envOrDefault("PAYMENT_BASE_URL", "https://api.payphron.test/v1"),
		PaymentPublicKey: envOrDefault("PAYMENT_PUBLIC_KEY", ""),
		RedisAddr:        envOrDefault("REDIS_ADDR", ""),
		BillingCountry:   envOrDefault("BILLING_COUNTRY", "MX"),
		TaxRatePercent:   envInt("TAX_RATE_PERCENT", 16),
		PollInterval:     envDuration("POLL_INTERVAL_SECONDS", 3*time.Second),
		PollMaxAttempts:  envInt("POLL_MAX_ATTEMPTS", 40),
		SessionTTL:       envHours("SESSION_TTL_HOURS", 720*time.Hour),
		AllowedOrigins:   envList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		ShutdownTimeout:  envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envHours(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		hours, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(hours) * time.Hour
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
