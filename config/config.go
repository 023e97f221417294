package config

import (
	"os"
)

// Process-wide flags, set once in main.
var (
	// WebAppBaseURL is the customer-facing catalog web-app root; the bot
	// links customers to {WebAppBaseURL}/orders/{vendorId}.
	WebAppBaseURL string

	// ImageBaseURL prefixes stored catalog image paths in API responses.
	ImageBaseURL string

	// BotReconcileSeconds is the bot manager's reconcile period.
	BotReconcileSeconds int
)

type Config struct {
	Port               string
	DBConnectionString string
}

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "5000"),
		DBConnectionString: getEnv("APP_DATABASE_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
