// Package config centralises configuration parsing for the activity console.
package config

import (
	"os"
	"strings"
)

// Config captures runtime configuration values for the activity console.
type Config struct {
	APIBaseURL     string
	MetricsAddress string // Empty disables the metrics listener.
}

// Load reads environment variables into Config, applying defaults for local dev.
func Load() Config {
	return Config{
		APIBaseURL:     strings.TrimRight(getEnv("ACTIVITIES_API", "http://localhost:3000"), "/"),
		MetricsAddress: getEnv("METRICS_ADDRESS", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
